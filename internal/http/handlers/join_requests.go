package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/listing"
	"github.com/orgdesk/orgdesk/internal/models"
)

// JoinRequestHandler manages membership application endpoints.
type JoinRequestHandler struct {
	db *gorm.DB
}

// NewJoinRequestHandler constructs a JoinRequestHandler.
func NewJoinRequestHandler(db *gorm.DB) *JoinRequestHandler {
	return &JoinRequestHandler{db: db}
}

var joinRequestListSpec = listing.Spec{
	SearchColumns: []string{"name", "phone"},
	SortColumns: map[string]string{
		"createdAt": "created_at",
		"name":      "name",
	},
	DefaultSort: "created_at DESC",
}

// joinRequestListQuery defines filters for the application list view.
type joinRequestListQuery struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Search string `form:"search"`
	Status string `form:"status"`
	Sort   string `form:"sort"`
	Order  string `form:"order"`
}

// List returns membership applications with paging, search and filters.
func (h *JoinRequestHandler) List(c *gin.Context) {
	var q joinRequestListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid query parameters"))
		return
	}
	res, errRun := listing.Run[models.JoinRequest](c.Request.Context(), h.db, joinRequestListSpec, listing.Params{
		Page:    q.Page,
		Limit:   q.Limit,
		Search:  q.Search,
		Filters: map[string]any{"status": q.Status},
		Sort:    q.Sort,
		Desc:    sortDesc(q.Order),
	})
	if errRun != nil {
		respondError(c, errRun)
		return
	}
	respondPage(c, res)
}

// Get returns a single application.
func (h *JoinRequestHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var row models.JoinRequest
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "join request not found"))
		return
	}
	respondData(c, http.StatusOK, "OK", row)
}

// createJoinRequestRequest defines the request body for applications.
type createJoinRequestRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Create records a membership application. A repeat application from
// the same phone number hits the unique index and is reported as a
// conflict.
func (h *JoinRequestHandler) Create(c *gin.Context) {
	if _, ok := mustPrincipal(c); !ok {
		return
	}
	var body createJoinRequestRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	name := strings.TrimSpace(body.Name)
	phone := strings.TrimSpace(body.Phone)
	if name == "" || phone == "" {
		respondError(c, apierr.InvalidArgument("name and phone are required"))
		return
	}

	row := models.JoinRequest{
		Name:     name,
		Phone:    phone,
		Email:    strings.TrimSpace(body.Email),
		Address:  strings.TrimSpace(body.Address),
		Status:   "pending",
		IsActive: true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		respondError(c, translateStoreError(errCreate, "an application with this phone number already exists", "join request not found"))
		return
	}
	respondData(c, http.StatusCreated, "join request recorded", row)
}

// setStatus transitions an application to the given status.
func (h *JoinRequestHandler) setStatus(c *gin.Context, status, message string) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.JoinRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
			"updated_by": principal.ID,
		})
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("join request not found"))
		return
	}
	respondData(c, http.StatusOK, message, nil)
}

// Approve marks an application approved.
func (h *JoinRequestHandler) Approve(c *gin.Context) {
	h.setStatus(c, "approved", "join request approved")
}

// Reject marks an application rejected.
func (h *JoinRequestHandler) Reject(c *gin.Context) {
	h.setStatus(c, "rejected", "join request rejected")
}

// Delete soft-deactivates an application.
func (h *JoinRequestHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.JoinRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
			"updated_by": principal.ID,
		})
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("join request not found"))
		return
	}
	respondData(c, http.StatusOK, "join request deactivated", nil)
}
