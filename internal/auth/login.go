package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/models"
	"github.com/orgdesk/orgdesk/internal/security"
)

// LoginInput carries the credential set presented at login.
type LoginInput struct {
	Identifier    string // Phone number or username.
	Password      string
	PlatformName  string // Client platform (web, admin, mobile).
	PlatformToken string // Shared per-platform secret.
	DeviceDetail  string // Free-form device descriptor.
}

// Verifier validates login credentials and issues session tokens.
type Verifier struct {
	db     *gorm.DB
	jwtCfg config.JWTConfig
}

// NewVerifier constructs a Verifier.
func NewVerifier(db *gorm.DB, jwtCfg config.JWTConfig) *Verifier {
	return &Verifier{db: db, jwtCfg: jwtCfg}
}

// Login validates the identifier, password and platform token, issues
// a signed session token and upserts the token record for the
// (user, platform) pair. A repeat login on the same platform replaces
// the previous record.
func (v *Verifier) Login(ctx context.Context, in LoginInput) (string, *Principal, error) {
	identifier := strings.TrimSpace(in.Identifier)
	password := strings.TrimSpace(in.Password)
	platformName := strings.TrimSpace(in.PlatformName)
	if identifier == "" || password == "" || platformName == "" {
		return "", nil, apierr.InvalidArgument("identifier, password and platformName are required")
	}

	var user models.User
	errFind := v.db.WithContext(ctx).
		Where("phone = ? OR username = ?", identifier, identifier).
		First(&user).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", nil, apierr.NotFound("account not found")
		}
		return "", nil, apierr.Internal(errFind)
	}
	if !user.IsActive || !user.IsVerified {
		return "", nil, apierr.NotFound("account not found")
	}

	if !security.CheckPassword(user.Password, password) {
		return "", nil, apierr.Unauthorized("invalid credentials")
	}

	if errPlatform := v.checkPlatform(ctx, platformName, in.PlatformToken); errPlatform != nil {
		return "", nil, errPlatform
	}

	expiry := v.jwtCfg.Expiry()
	token, errSign := security.GenerateToken(v.jwtCfg.Secret, user.ID, user.Username, platformName, expiry)
	if errSign != nil {
		return "", nil, apierr.Internal(errSign)
	}

	now := time.Now().UTC()
	record := models.SessionToken{
		UserID:       user.ID,
		Platform:     platformName,
		Token:        token,
		DeviceDetail: strings.TrimSpace(in.DeviceDetail),
		ExpiresAt:    now.Add(expiry),
	}
	errUpsert := v.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "device_detail", "expires_at", "updated_at"}),
		}).
		Create(&record).Error
	if errUpsert != nil {
		return "", nil, apierr.Internal(errUpsert)
	}

	return token, principalFromUser(&user, platformName), nil
}

// Logout removes the session record for the (user, platform) pair.
// Removing an already absent record is not an error.
func (v *Verifier) Logout(ctx context.Context, userID uint64, platform string) error {
	errDelete := v.db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, strings.TrimSpace(platform)).
		Delete(&models.SessionToken{}).Error
	if errDelete != nil {
		return apierr.Internal(errDelete)
	}
	return nil
}

// checkPlatform validates the shared platform secret.
func (v *Verifier) checkPlatform(ctx context.Context, name, token string) error {
	var platform models.Platform
	errFind := v.db.WithContext(ctx).Where("name = ?", name).First(&platform).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return apierr.Unauthorized("unknown platform")
		}
		return apierr.Internal(errFind)
	}
	if !platform.IsActive {
		return apierr.Unauthorized("platform is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(platform.Token), []byte(strings.TrimSpace(token))) != 1 {
		return apierr.Unauthorized("invalid platform token")
	}
	return nil
}
