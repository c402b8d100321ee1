package httpapi

import (
	"github.com/ratewise/platform/internal/app/domain/user"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the token-plus-user document returned by signup and
// login.
type authResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Role    *string `json:"role"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type createStoreRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	OwnerID string `json:"ownerId"`
}

type updateStoreRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	OwnerID *string `json:"ownerId"`
}

type createRatingRequest struct {
	StoreID string `json:"storeId"`
	Rating  int    `json:"rating"`
	UserID  string `json:"userId"`
}

type updateRatingRequest struct {
	Rating int    `json:"rating"`
	UserID string `json:"userId"`
}

type deleteRatingRequest struct {
	UserID string `json:"userId"`
}

type roleBreakdown struct {
	Admins      int `json:"admins"`
	Users       int `json:"users"`
	StoreOwners int `json:"storeOwners"`
}

// dashboardResponse is the admin overview document.
type dashboardResponse struct {
	TotalUsers   int           `json:"totalUsers"`
	TotalStores  int           `json:"totalStores"`
	TotalRatings int           `json:"totalRatings"`
	UsersByRole  roleBreakdown `json:"usersByRole"`
}
