package httpapi

import (
	"net/http"
)

func (s *server) dashboard(w http.ResponseWriter, r *http.Request) {
	userStats, err := s.app.Users.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	totalStores, err := s.app.Stores.TotalCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	totalRatings, err := s.app.Ratings.TotalCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalUsers:   userStats.TotalUsers,
		TotalStores:  totalStores,
		TotalRatings: totalRatings,
		UsersByRole: roleBreakdown{
			Admins:      userStats.TotalAdmins,
			Users:       userStats.TotalUsers - userStats.TotalAdmins - userStats.TotalStoreOwners,
			StoreOwners: userStats.TotalStoreOwners,
		},
	})
}
