package auth

import (
	"context"
	"testing"
	"time"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/models"
	"github.com/orgdesk/orgdesk/internal/permissions"
	"github.com/orgdesk/orgdesk/internal/security"
)

func TestExtractToken(t *testing.T) {
	cases := []struct {
		header string
		cookie string
		want   string
	}{
		{"Bearer abc", "", "abc"},
		{"Bearer  abc ", "", "abc"},
		{"abc", "", ""}, // missing prefix is treated as absent
		{"", "cookie-token", "cookie-token"},
		{"Token abc", "cookie-token", "cookie-token"},
		{"Bearer header-token", "cookie-token", "header-token"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := ExtractToken(tc.header, tc.cookie); got != tc.want {
			t.Fatalf("ExtractToken(%q, %q) = %q, want %q", tc.header, tc.cookie, got, tc.want)
		}
	}
}

func TestAuthenticateResolvesFreshPrincipal(t *testing.T) {
	conn := setupAuthDB(t)
	user := seedUser(t, conn, "asha", "9000000001", "pass-word-1", permissions.RoleMember)

	token, errSign := security.GenerateToken(testJWT.Secret, user.ID, user.Username, "web", time.Hour)
	if errSign != nil {
		t.Fatalf("generate token: %v", errSign)
	}

	authn := NewAuthenticator(conn, testJWT)
	principal, errAuth := authn.Authenticate(context.Background(), token)
	if errAuth != nil {
		t.Fatalf("authenticate: %v", errAuth)
	}
	if principal.ID != user.ID || principal.Role != permissions.RoleMember {
		t.Fatalf("unexpected principal %+v", principal)
	}

	// Role changes are visible on the next request without reissuing
	// the token.
	if errUpdate := conn.Model(&models.User{}).Where("id = ?", user.ID).Update("role", permissions.RoleAdmin).Error; errUpdate != nil {
		t.Fatalf("update role: %v", errUpdate)
	}
	principal, errAuth = authn.Authenticate(context.Background(), token)
	if errAuth != nil {
		t.Fatalf("authenticate after role change: %v", errAuth)
	}
	if principal.Role != permissions.RoleAdmin {
		t.Fatalf("expected refreshed role admin, got %q", principal.Role)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	conn := setupAuthDB(t)
	user := seedUser(t, conn, "asha", "9000000001", "pass-word-1", permissions.RoleMember)
	authn := NewAuthenticator(conn, testJWT)

	_, err := authn.Authenticate(context.Background(), "")
	expectKind(t, err, apierr.KindUnauthorized)

	_, err = authn.Authenticate(context.Background(), "garbage")
	expectKind(t, err, apierr.KindUnauthorized)

	expired, errSign := security.GenerateToken(testJWT.Secret, user.ID, user.Username, "web", -time.Minute)
	if errSign != nil {
		t.Fatalf("generate expired token: %v", errSign)
	}
	_, err = authn.Authenticate(context.Background(), expired)
	expectKind(t, err, apierr.KindUnauthorized)

	ghost, errSign := security.GenerateToken(testJWT.Secret, user.ID+999, "ghost", "web", time.Hour)
	if errSign != nil {
		t.Fatalf("generate ghost token: %v", errSign)
	}
	_, err = authn.Authenticate(context.Background(), ghost)
	expectKind(t, err, apierr.KindUnauthorized)

	token, errSign := security.GenerateToken(testJWT.Secret, user.ID, user.Username, "web", time.Hour)
	if errSign != nil {
		t.Fatalf("generate token: %v", errSign)
	}
	if errDeactivate := conn.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; errDeactivate != nil {
		t.Fatalf("deactivate user: %v", errDeactivate)
	}
	_, err = authn.Authenticate(context.Background(), token)
	expectKind(t, err, apierr.KindUnauthorized)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	conn := setupAuthDB(t)

	if errSeed := SeedDefaults(context.Background(), conn); errSeed != nil {
		t.Fatalf("seed: %v", errSeed)
	}
	if errSeed := SeedDefaults(context.Background(), conn); errSeed != nil {
		t.Fatalf("repeat seed: %v", errSeed)
	}

	var userCount, platformCount int64
	if errCount := conn.Model(&models.User{}).Count(&userCount).Error; errCount != nil {
		t.Fatalf("count users: %v", errCount)
	}
	if errCount := conn.Model(&models.Platform{}).Count(&platformCount).Error; errCount != nil {
		t.Fatalf("count platforms: %v", errCount)
	}
	if userCount != 1 || platformCount != 1 {
		t.Fatalf("expected one seeded user and platform, got %d/%d", userCount, platformCount)
	}

	var admin models.User
	if errFind := conn.Where("username = ?", "admin").First(&admin).Error; errFind != nil {
		t.Fatalf("find seeded admin: %v", errFind)
	}
	if admin.Role != permissions.RoleSuperAdmin {
		t.Fatalf("expected superAdmin role, got %q", admin.Role)
	}
}
