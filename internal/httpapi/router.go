// Package httpapi exposes the REST API. Routes are declared in a table
// mapping each endpoint to its handler and authorization requirement;
// the middleware chain is tracing -> CORS -> router (metrics, rate
// limit) -> per-route auth.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ratewise/platform/internal/app"
	"github.com/ratewise/platform/internal/app/domain/user"
	"github.com/ratewise/platform/internal/middleware"
	"github.com/ratewise/platform/pkg/logger"
)

// Config tunes the HTTP surface.
type Config struct {
	ServiceName        string
	CORSOrigins        []string
	RateLimitPerSecond int
	RateLimitBurst     int
}

type server struct {
	app     *app.Application
	log     *logger.Logger
	started time.Time
}

type route struct {
	method  string
	path    string
	handler http.HandlerFunc
	public  bool
	roles   []user.Role
}

// NewRouter builds the full handler chain for the API.
func NewRouter(application *app.Application, cfg Config, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ratewise"
	}

	s := &server{app: application, log: log, started: time.Now()}

	r := mux.NewRouter()
	r.Use(middleware.Metrics(cfg.ServiceName, application.Metrics))
	if cfg.RateLimitPerSecond > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = cfg.RateLimitPerSecond
		}
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, burst, log)
		r.Use(limiter.Handler)
	}

	authenticate := middleware.Authenticate(application.Auth, log)

	// Static-path routes are declared before their parameterised
	// siblings so mux matches them first.
	routes := []route{
		{http.MethodGet, "/health", s.health, true, nil},

		{http.MethodPost, "/auth/signup", s.signup, true, nil},
		{http.MethodPost, "/auth/login", s.login, true, nil},
		{http.MethodGet, "/auth/profile", s.profile, false, nil},
		{http.MethodPost, "/auth/logout", s.logout, false, nil},

		{http.MethodPost, "/users", s.createUser, true, nil},
		{http.MethodGet, "/users", s.listUsers, false, nil},
		{http.MethodGet, "/users/stats", s.userStats, false, []user.Role{user.RoleAdmin}},
		{http.MethodGet, "/users/{id}", s.getUser, false, nil},
		{http.MethodPatch, "/users/{id}", s.updateUser, false, nil},
		{http.MethodPatch, "/users/{id}/password", s.updatePassword, false, nil},
		{http.MethodDelete, "/users/{id}", s.deleteUser, false, nil},

		{http.MethodPost, "/stores", s.createStore, false, nil},
		{http.MethodGet, "/stores", s.listStores, true, nil},
		{http.MethodGet, "/stores/owner/{ownerId}", s.listStoresByOwner, false, nil},
		{http.MethodGet, "/stores/{id}", s.getStore, true, nil},
		{http.MethodGet, "/stores/{id}/stats", s.storeStats, false, nil},
		{http.MethodPatch, "/stores/{id}", s.updateStore, false, nil},
		{http.MethodDelete, "/stores/{id}", s.deleteStore, false, nil},

		{http.MethodPost, "/ratings", s.createRating, false, nil},
		{http.MethodGet, "/ratings", s.listRatings, false, nil},
		{http.MethodGet, "/ratings/user/{userId}/store/{storeId}", s.getRatingForUserAndStore, false, nil},
		{http.MethodGet, "/ratings/user/{userId}", s.listRatingsByUser, false, nil},
		{http.MethodGet, "/ratings/store/{storeId}", s.listRatingsByStore, false, nil},
		{http.MethodGet, "/ratings/{id}", s.getRating, false, nil},
		{http.MethodPatch, "/ratings/{id}", s.updateRating, false, nil},
		{http.MethodDelete, "/ratings/{id}", s.deleteRating, false, nil},

		{http.MethodGet, "/admin/dashboard", s.dashboard, false, []user.Role{user.RoleAdmin}},
		{http.MethodPost, "/admin/users", s.createUser, false, []user.Role{user.RoleAdmin}},
		{http.MethodGet, "/admin/users", s.listUsers, false, []user.Role{user.RoleAdmin}},
		{http.MethodPost, "/admin/stores", s.createStore, false, []user.Role{user.RoleAdmin}},
		{http.MethodGet, "/admin/stores", s.listStores, false, []user.Role{user.RoleAdmin}},
		{http.MethodGet, "/admin/ratings", s.listRatings, false, []user.Role{user.RoleAdmin}},
	}

	for _, rt := range routes {
		var h http.Handler = rt.handler
		if !rt.public {
			if len(rt.roles) > 0 {
				h = middleware.RequireRoles(rt.roles...)(h)
			}
			h = authenticate(h)
		}
		r.Handle(rt.path, h).Methods(rt.method)
	}

	r.Handle("/metrics", application.Metrics.Handler()).Methods(http.MethodGet)

	cors := middleware.NewCORS(cfg.CORSOrigins)
	return middleware.Tracing(log)(cors.Handler(r))
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
	})
}
