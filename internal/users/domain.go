package users

import (
	"time"

	"github.com/printdesk/printdesk/internal/orders"
)

// User is a staff account. Roles drive what lifecycle actions the
// account may perform.
type User struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Roles        []orders.Role `json:"roles"`
	PasswordHash string        `json:"-"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Actor converts the account into the explicit actor context the
// lifecycle machine consumes.
func (u User) Actor() orders.ActingUser {
	return orders.ActingUser{ID: u.ID, Roles: u.Roles}
}

// HasRole reports whether the account holds the role.
func (u User) HasRole(role orders.Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
