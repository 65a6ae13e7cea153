package handlers

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/models"
	"github.com/orgdesk/orgdesk/internal/permissions"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	errMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Platform{},
		&models.SessionToken{},
		&models.News{},
		&models.Event{},
		&models.Video{},
		&models.Leader{},
		&models.Donation{},
		&models.Query{},
		&models.JoinRequest{},
	)
	if errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return conn
}

// withPrincipal places a test principal in the context the way the
// auth middleware does.
func withPrincipal(p *auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set("principal", p)
		}
		c.Next()
	}
}

func adminPrincipal() *auth.Principal {
	return &auth.Principal{
		ID:       1,
		Name:     "Admin",
		Username: "admin",
		Role:     permissions.RoleSuperAdmin,
		Platform: "web",
		Matrix:   permissions.Matrix{},
	}
}
