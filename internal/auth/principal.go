package auth

import (
	"github.com/orgdesk/orgdesk/internal/models"
	"github.com/orgdesk/orgdesk/internal/permissions"
)

// Principal is the authenticated actor behind a request. Role and
// matrix are re-read from storage on every request, so permission
// changes take effect immediately.
type Principal struct {
	ID       uint64             `json:"id"`
	Name     string             `json:"name"`
	Username string             `json:"username"`
	Phone    string             `json:"phone"`
	Role     string             `json:"role"`
	Platform string             `json:"platform,omitempty"`
	Matrix   permissions.Matrix `json:"permissions"`
}

// Can reports whether the principal may perform action on module.
func (p *Principal) Can(module, action string) bool {
	if p == nil {
		return false
	}
	return permissions.Allowed(p.Role, p.Matrix, module, action)
}

// IsAdmin reports whether the principal holds an admin-surface role.
func (p *Principal) IsAdmin() bool {
	if p == nil {
		return false
	}
	return p.Role == permissions.RoleSuperAdmin || p.Role == permissions.RoleAdmin
}

// principalFromUser builds a Principal from a stored user row.
func principalFromUser(user *models.User, platform string) *Principal {
	return &Principal{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Phone:    user.Phone,
		Role:     user.Role,
		Platform: platform,
		Matrix:   permissions.ParseMatrix(user.Permissions),
	}
}
