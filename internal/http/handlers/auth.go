package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/config"
)

// AuthHandler handles login, logout and profile endpoints.
type AuthHandler struct {
	verifier *auth.Verifier
	jwtCfg   config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(verifier *auth.Verifier, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{verifier: verifier, jwtCfg: jwtCfg}
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Identifier    string `json:"identifier"`
	Password      string `json:"password"`
	PlatformName  string `json:"platformName"`
	PlatformToken string `json:"platformToken"`
	DeviceDetail  string `json:"deviceDetail"`
}

// Login authenticates the credential set and issues a session token.
// The token is also set as an httpOnly cookie for browser clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}

	token, principal, errLogin := h.verifier.Login(c.Request.Context(), auth.LoginInput{
		Identifier:    body.Identifier,
		Password:      body.Password,
		PlatformName:  body.PlatformName,
		PlatformToken: body.PlatformToken,
		DeviceDetail:  body.DeviceDetail,
	})
	if errLogin != nil {
		respondError(c, errLogin)
		return
	}

	maxAge := int(h.jwtCfg.Expiry() / time.Second)
	c.SetCookie("token", token, maxAge, "/", "", false, true)
	respondData(c, http.StatusOK, "login successful", gin.H{
		"token": token,
		"user":  principal,
	})
}

// Logout removes the caller's session record and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	if errLogout := h.verifier.Logout(c.Request.Context(), principal.ID, principal.Platform); errLogout != nil {
		respondError(c, errLogout)
		return
	}
	c.SetCookie("token", "", -1, "/", "", false, true)
	respondData(c, http.StatusOK, "logged out", nil)
}

// Profile echoes the authenticated principal, including the freshly
// loaded role and permission matrix.
func (h *AuthHandler) Profile(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, "OK", principal)
}
