package services

import "github.com/yeremiapane/pos-app/models"

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	UserID   uint
	Username string
	Role     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// ScopeCashier returns the cashier filter a report or listing must use.
// Admins choose freely (nil means every cashier); everyone else is pinned to themselves.
func (a Actor) ScopeCashier(requested *uint) *uint {
	if a.IsAdmin() {
		return requested
	}
	id := a.UserID
	return &id
}
