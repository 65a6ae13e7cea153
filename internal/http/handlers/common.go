package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/listing"
)

// currentPrincipal extracts the principal placed in context by the
// auth middleware.
func currentPrincipal(c *gin.Context) (*auth.Principal, bool) {
	value, ok := c.Get("principal")
	if !ok {
		return nil, false
	}
	principal, ok := value.(*auth.Principal)
	return principal, ok && principal != nil
}

// mustPrincipal returns the principal or writes Unauthorized.
func mustPrincipal(c *gin.Context) (*auth.Principal, bool) {
	principal, ok := currentPrincipal(c)
	if !ok {
		respondError(c, apierr.Unauthorized("missing token"))
		return nil, false
	}
	return principal, true
}

// respondError writes the canonical error envelope. Internal causes
// are logged and never leaked to the client.
func respondError(c *gin.Context, err error) {
	apiErr := apierr.Translate(err)
	if apiErr.Kind == apierr.KindInternal {
		log.WithError(apiErr).WithField("path", c.FullPath()).Error("request failed")
	}
	status := apiErr.Kind.StatusCode()
	c.JSON(status, gin.H{
		"message":     apiErr.Message,
		"status_code": status,
	})
}

// respondData writes the canonical single-object envelope.
func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"data":        data,
		"message":     message,
		"status_code": status,
	})
}

// respondPage writes the canonical list envelope shared by every
// resource.
func respondPage[T any](c *gin.Context, res listing.Result[T]) {
	c.JSON(http.StatusOK, gin.H{
		"items":       res.Items,
		"totalItems":  res.TotalItems,
		"totalPages":  res.TotalPages,
		"page":        res.Page,
		"message":     "OK",
		"status_code": http.StatusOK,
	})
}

// parseID reads the :id route parameter.
func parseID(c *gin.Context) (uint64, error) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil || id == 0 {
		return 0, apierr.InvalidArgument("invalid id")
	}
	return id, nil
}

// parseBoolFilter interprets an optional true/false query value.
func parseBoolFilter(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}

// sortDesc reports whether the requested order is descending. An
// empty order defaults to descending, matching the default sort.
func sortDesc(order string) bool {
	return !strings.EqualFold(strings.TrimSpace(order), "asc")
}

// translateStoreError maps storage errors on writes to the taxonomy:
// duplicate keys become Conflict, missing rows become NotFound.
func translateStoreError(err error, conflictMessage, notFoundMessage string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierr.Conflict(conflictMessage)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.NotFound(notFoundMessage)
	default:
		return apierr.Internal(err)
	}
}
