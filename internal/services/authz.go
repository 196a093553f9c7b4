package services

import (
	"fairhold/marketplace/internal/models"
)

// Principal identifies the authenticated caller of a service operation.
// A nil Principal means the call is anonymous.
type Principal struct {
	UserID string
	Role   models.Role
}

// Authorize checks that p is authenticated and holds the required role.
// Admins satisfy every role requirement. It is the single authorization
// gate shared by the inquiry and moderation services.
func Authorize(p *Principal, required models.Role) error {
	if p == nil || p.UserID == "" {
		return ErrAuthenticationRequired
	}
	if p.Role == models.RoleAdmin {
		return nil
	}
	switch required {
	case models.RoleModerator:
		if !p.Role.CanModerate() {
			return ErrNotAuthorized
		}
	case models.RoleAdmin:
		return ErrNotAuthorized
	}
	return nil
}
