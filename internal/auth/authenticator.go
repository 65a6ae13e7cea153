package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/models"
	"github.com/orgdesk/orgdesk/internal/permissions"
	"github.com/orgdesk/orgdesk/internal/security"
)

// Authenticator resolves bearer tokens to live principals.
type Authenticator struct {
	db     *gorm.DB
	jwtCfg config.JWTConfig
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(db *gorm.DB, jwtCfg config.JWTConfig) *Authenticator {
	return &Authenticator{db: db, jwtCfg: jwtCfg}
}

// ExtractToken pulls the raw token out of an Authorization header
// value or the session cookie. A header without the Bearer prefix is
// treated as an absent token.
func ExtractToken(authHeader, cookieToken string) string {
	header := strings.TrimSpace(authHeader)
	if header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if token != header {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(cookieToken)
}

// Authenticate verifies a raw token and resolves the embedded identity
// to a live principal, reading role and permissions fresh from storage.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*Principal, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, apierr.Unauthorized("missing token")
	}

	claims, errParse := security.ParseToken(a.jwtCfg.Secret, token)
	if errParse != nil {
		return nil, apierr.Unauthorized("invalid or expired token")
	}

	var user models.User
	if errFind := a.db.WithContext(ctx).First(&user, claims.UserID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("account not found")
		}
		return nil, apierr.Internal(errFind)
	}
	if !user.IsActive {
		return nil, apierr.Unauthorized("account is disabled")
	}
	if !permissions.ValidRole(user.Role) {
		return nil, apierr.Unauthorized("account role is not recognized")
	}

	return principalFromUser(&user, claims.Platform), nil
}
