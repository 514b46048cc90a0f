package models

import "time"

// UserRole is the closed set of operator roles. Keeping this enumerated means
// a retired role (the old TPM role) cannot resurface through stored data.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RolePAM   UserRole = "pam"
	RolePDM   UserRole = "pdm"
	RolePSM   UserRole = "psm"
	RoleTAM   UserRole = "tam"
)

// ValidRole reports whether r is a known role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RolePAM, RolePDM, RolePSM, RoleTAM:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"_id,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
