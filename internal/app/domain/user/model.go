package user

import "time"

// Role determines which operations a user may perform.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
	RoleStoreOwner Role = "STORE_OWNER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

// User is an account on the platform. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Address      string    `json:"address" db:"address"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Filter narrows and orders user listings. Name, Email and Address are
// case-insensitive substring matches; Role is an exact match.
type Filter struct {
	Name      string
	Email     string
	Address   string
	Role      Role
	SortBy    string
	SortOrder string
}

// Stats summarises account counts for the admin dashboard.
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	TotalAdmins      int `json:"totalAdmins"`
	TotalStoreOwners int `json:"totalStoreOwners"`
}
