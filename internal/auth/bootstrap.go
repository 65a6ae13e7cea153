package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/models"
	"github.com/orgdesk/orgdesk/internal/permissions"
	"github.com/orgdesk/orgdesk/internal/security"
)

// defaultPlatformName is the platform seeded on first boot.
const defaultPlatformName = "web"

// SeedDefaults creates the first superAdmin account and the default
// web platform when the database is empty. Generated credentials are
// logged once so the operator can perform the initial login.
func SeedDefaults(ctx context.Context, conn *gorm.DB) error {
	var userCount int64
	if err := conn.WithContext(ctx).Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if userCount == 0 {
		password, errPassword := randomSecret(12)
		if errPassword != nil {
			return fmt.Errorf("seed: generate password: %w", errPassword)
		}
		hash, errHash := security.HashPassword(password)
		if errHash != nil {
			return fmt.Errorf("seed: hash password: %w", errHash)
		}
		admin := models.User{
			Name:        "Administrator",
			Username:    "admin",
			Phone:       "0000000000",
			Password:    hash,
			Role:        permissions.RoleSuperAdmin,
			Permissions: datatypes.JSON("{}"),
			IsActive:    true,
			IsVerified:  true,
		}
		if errCreate := conn.WithContext(ctx).Create(&admin).Error; errCreate != nil {
			return fmt.Errorf("seed: create superadmin: %w", errCreate)
		}
		log.Infof("seeded superAdmin account username=admin password=%s (change it after first login)", password)
	}

	var platformCount int64
	if err := conn.WithContext(ctx).Model(&models.Platform{}).Count(&platformCount).Error; err != nil {
		return fmt.Errorf("seed: count platforms: %w", err)
	}
	if platformCount == 0 {
		token, errToken := randomSecret(24)
		if errToken != nil {
			return fmt.Errorf("seed: generate platform token: %w", errToken)
		}
		platform := models.Platform{
			Name:     defaultPlatformName,
			Token:    token,
			IsActive: true,
		}
		if errCreate := conn.WithContext(ctx).Create(&platform).Error; errCreate != nil {
			return fmt.Errorf("seed: create platform: %w", errCreate)
		}
		log.Infof("seeded platform name=%s token=%s", defaultPlatformName, token)
	}
	return nil
}

// randomSecret returns n random bytes hex encoded.
func randomSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
