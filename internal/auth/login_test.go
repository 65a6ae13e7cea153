package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/models"
	"github.com/orgdesk/orgdesk/internal/permissions"
	"github.com/orgdesk/orgdesk/internal/security"
)

var testJWT = config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}

func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.User{}, &models.Platform{}, &models.SessionToken{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, username, phone, password, role string) models.User {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	user := models.User{
		Name:        "Test User",
		Username:    username,
		Phone:       phone,
		Password:    hash,
		Role:        role,
		Permissions: datatypes.JSON("{}"),
		IsActive:    true,
		IsVerified:  true,
	}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("seed user: %v", errCreate)
	}
	return user
}

func seedPlatform(t *testing.T, conn *gorm.DB, name, token string, active bool) {
	t.Helper()
	platform := models.Platform{Name: name, Token: token, IsActive: active}
	if errCreate := conn.Create(&platform).Error; errCreate != nil {
		t.Fatalf("seed platform: %v", errCreate)
	}
}

func expectKind(t *testing.T, err error, kind apierr.Kind) {
	t.Helper()
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != kind {
		t.Fatalf("expected error kind %d, got %v", kind, err)
	}
}

func TestLoginIssuesTokenAndSessionRecord(t *testing.T) {
	conn := setupAuthDB(t)
	user := seedUser(t, conn, "asha", "9000000001", "pass-word-1", permissions.RoleAdmin)
	seedPlatform(t, conn, "web", "platform-secret", true)

	verifier := NewVerifier(conn, testJWT)
	token, principal, errLogin := verifier.Login(context.Background(), LoginInput{
		Identifier:    "asha",
		Password:      "pass-word-1",
		PlatformName:  "web",
		PlatformToken: "platform-secret",
		DeviceDetail:  "firefox on linux",
	})
	if errLogin != nil {
		t.Fatalf("login: %v", errLogin)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if principal.ID != user.ID || principal.Platform != "web" {
		t.Fatalf("unexpected principal %+v", principal)
	}

	claims, errParse := security.ParseToken(testJWT.Secret, token)
	if errParse != nil {
		t.Fatalf("parse issued token: %v", errParse)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected claims for user %d, got %d", user.ID, claims.UserID)
	}

	var record models.SessionToken
	if errFind := conn.Where("user_id = ? AND platform = ?", user.ID, "web").First(&record).Error; errFind != nil {
		t.Fatalf("find session record: %v", errFind)
	}
	if record.Token != token {
		t.Fatal("expected stored token to match issued token")
	}
	if record.DeviceDetail != "firefox on linux" {
		t.Fatalf("expected device detail stored, got %q", record.DeviceDetail)
	}
}

func TestLoginByPhoneIdentifier(t *testing.T) {
	conn := setupAuthDB(t)
	seedUser(t, conn, "asha", "9000000001", "pass-word-1", permissions.RoleAdmin)
	seedPlatform(t, conn, "web", "platform-secret", true)

	verifier := NewVerifier(conn, testJWT)
	_, principal, errLogin := verifier.Login(context.Background(), LoginInput{
		Identifier:    "9000000001",
		Password:      "pass-word-1",
		PlatformName:  "web",
		PlatformToken: "platform-secret",
	})
	if errLogin != nil {
		t.Fatalf("login by phone: %v", errLogin)
	}
	if principal.Username != "asha" {
		t.Fatalf("expected asha, got %q", principal.Username)
	}
}

func TestLoginRepeatReplacesSessionRecord(t *testing.T) {
	conn := setupAuthDB(t)
	user := seedUser(t, conn, "asha", "9000000001", "pass-word-1", permissions.RoleAdmin)
	seedPlatform(t, conn, "web", "platform-secret", true)

	verifier := NewVerifier(conn, testJWT)
	in := LoginInput{
		Identifier:    "asha",
		Password:      "pass-word-1",
		PlatformName:  "web",
		PlatformToken: "platform-secret",
		DeviceDetail:  "first device",
	}
	if _, _, errLogin := verifier.Login(context.Background(), in); errLogin != nil {
		t.Fatalf("first login: %v", errLogin)
	}

	in.DeviceDetail = "second device"
	secondToken, _, errLogin := verifier.Login(context.Background(), in)
	if errLogin != nil {
		t.Fatalf("second login: %v", errLogin)
	}

	var count int64
	if errCount := conn.Model(&models.SessionToken{}).Where("user_id = ?", user.ID).Count(&count).Error; errCount != nil {
		t.Fatalf("count sessions: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected a single session row per (user, platform), got %d", count)
	}

	var record models.SessionToken
	if errFind := conn.Where("user_id = ? AND platform = ?", user.ID, "web").First(&record).Error; errFind != nil {
		t.Fatalf("find session record: %v", errFind)
	}
	if record.Token != secondToken || record.DeviceDetail != "second device" {
		t.Fatalf("expected replaced session record, got %+v", record)
	}
}

func TestLoginFailures(t *testing.T) {
	conn := setupAuthDB(t)
	user := seedUser(t, conn, "asha", "9000000001", "pass-word-1", permissions.RoleAdmin)
	seedPlatform(t, conn, "web", "platform-secret", true)
	seedPlatform(t, conn, "legacy", "legacy-secret", false)

	verifier := NewVerifier(conn, testJWT)
	base := LoginInput{
		Identifier:    "asha",
		Password:      "pass-word-1",
		PlatformName:  "web",
		PlatformToken: "platform-secret",
	}

	missing := base
	missing.Password = ""
	_, _, err := verifier.Login(context.Background(), missing)
	expectKind(t, err, apierr.KindInvalidArgument)

	unknown := base
	unknown.Identifier = "nobody"
	_, _, err = verifier.Login(context.Background(), unknown)
	expectKind(t, err, apierr.KindNotFound)

	wrongPassword := base
	wrongPassword.Password = "wrong"
	_, _, err = verifier.Login(context.Background(), wrongPassword)
	expectKind(t, err, apierr.KindUnauthorized)

	wrongPlatformToken := base
	wrongPlatformToken.PlatformToken = "guess"
	_, _, err = verifier.Login(context.Background(), wrongPlatformToken)
	expectKind(t, err, apierr.KindUnauthorized)

	unknownPlatform := base
	unknownPlatform.PlatformName = "mobile"
	_, _, err = verifier.Login(context.Background(), unknownPlatform)
	expectKind(t, err, apierr.KindUnauthorized)

	disabledPlatform := base
	disabledPlatform.PlatformName = "legacy"
	disabledPlatform.PlatformToken = "legacy-secret"
	_, _, err = verifier.Login(context.Background(), disabledPlatform)
	expectKind(t, err, apierr.KindUnauthorized)

	if errDeactivate := conn.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; errDeactivate != nil {
		t.Fatalf("deactivate user: %v", errDeactivate)
	}
	_, _, err = verifier.Login(context.Background(), base)
	expectKind(t, err, apierr.KindNotFound)
}

func TestLogoutRemovesSessionRecord(t *testing.T) {
	conn := setupAuthDB(t)
	user := seedUser(t, conn, "asha", "9000000001", "pass-word-1", permissions.RoleAdmin)
	seedPlatform(t, conn, "web", "platform-secret", true)

	verifier := NewVerifier(conn, testJWT)
	if _, _, errLogin := verifier.Login(context.Background(), LoginInput{
		Identifier:    "asha",
		Password:      "pass-word-1",
		PlatformName:  "web",
		PlatformToken: "platform-secret",
	}); errLogin != nil {
		t.Fatalf("login: %v", errLogin)
	}

	if errLogout := verifier.Logout(context.Background(), user.ID, "web"); errLogout != nil {
		t.Fatalf("logout: %v", errLogout)
	}
	var count int64
	if errCount := conn.Model(&models.SessionToken{}).Where("user_id = ?", user.ID).Count(&count).Error; errCount != nil {
		t.Fatalf("count sessions: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected session removed, got %d rows", count)
	}

	// Logging out twice is not an error.
	if errLogout := verifier.Logout(context.Background(), user.ID, "web"); errLogout != nil {
		t.Fatalf("repeat logout: %v", errLogout)
	}
}
