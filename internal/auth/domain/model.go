package domain

import "time"

const (
	RoleFarmer          = "farmer"
	RoleMarketplaceUser = "marketplaceUser"
	RoleAdmin           = "admin"
)

// User is an account row. PasswordHash never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleFarmer, RoleMarketplaceUser, RoleAdmin:
		return true
	}
	return false
}
