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

// QueryHandler manages public query endpoints.
type QueryHandler struct {
	db *gorm.DB
}

// NewQueryHandler constructs a QueryHandler.
func NewQueryHandler(db *gorm.DB) *QueryHandler {
	return &QueryHandler{db: db}
}

var queryListSpec = listing.Spec{
	SearchColumns: []string{"subject", "phone"},
	SortColumns: map[string]string{
		"createdAt": "created_at",
		"subject":   "subject",
	},
	DefaultSort: "created_at DESC",
}

// queryListQuery defines filters for the query list view.
type queryListQuery struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
}

// List returns queries with paging, search and filters.
func (h *QueryHandler) List(c *gin.Context) {
	var q queryListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid query parameters"))
		return
	}
	res, errRun := listing.Run[models.Query](c.Request.Context(), h.db, queryListSpec, listing.Params{
		Page:   q.Page,
		Limit:  q.Limit,
		Search: q.Search,
		Filters: map[string]any{
			"status":   q.Status,
			"priority": q.Priority,
		},
		Sort: q.Sort,
		Desc: sortDesc(q.Order),
	})
	if errRun != nil {
		respondError(c, errRun)
		return
	}
	respondPage(c, res)
}

// Get returns a single query.
func (h *QueryHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var row models.Query
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "query not found"))
		return
	}
	respondData(c, http.StatusOK, "OK", row)
}

// createQueryRequest defines the request body for query intake.
type createQueryRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

// Create records an incoming query.
func (h *QueryHandler) Create(c *gin.Context) {
	if _, ok := mustPrincipal(c); !ok {
		return
	}
	var body createQueryRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	name := strings.TrimSpace(body.Name)
	subject := strings.TrimSpace(body.Subject)
	if name == "" || subject == "" {
		respondError(c, apierr.InvalidArgument("name and subject are required"))
		return
	}
	priority := strings.TrimSpace(body.Priority)
	if priority == "" {
		priority = "normal"
	}

	row := models.Query{
		Name:     name,
		Phone:    strings.TrimSpace(body.Phone),
		Subject:  subject,
		Message:  body.Message,
		Status:   "pending",
		Priority: priority,
		IsActive: true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		respondError(c, apierr.Internal(errCreate))
		return
	}
	respondData(c, http.StatusCreated, "query recorded", row)
}

// updateQueryRequest defines the request body for partial updates.
type updateQueryRequest struct {
	Subject  *string `json:"subject"`
	Message  *string `json:"message"`
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

// Update applies a partial field merge and stamps the updater.
// Moving the status to resolved records the resolution time.
func (h *QueryHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body updateQueryRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"updated_at": now,
		"updated_by": principal.ID,
	}
	if body.Subject != nil {
		subject := strings.TrimSpace(*body.Subject)
		if subject == "" {
			respondError(c, apierr.InvalidArgument("subject cannot be empty"))
			return
		}
		updates["subject"] = subject
	}
	if body.Message != nil {
		updates["message"] = *body.Message
	}
	if body.Priority != nil {
		updates["priority"] = strings.TrimSpace(*body.Priority)
	}
	if body.Status != nil {
		status := strings.TrimSpace(*body.Status)
		if status != "pending" && status != "resolved" {
			respondError(c, apierr.InvalidArgument("status must be pending or resolved"))
			return
		}
		updates["status"] = status
		if status == "resolved" {
			updates["resolved_at"] = now
		} else {
			updates["resolved_at"] = nil
		}
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Query{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("query not found"))
		return
	}

	var row models.Query
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "query not found"))
		return
	}
	respondData(c, http.StatusOK, "query updated", row)
}

// Resolve marks a query resolved.
func (h *QueryHandler) Resolve(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	now := time.Now().UTC()
	res := h.db.WithContext(c.Request.Context()).Model(&models.Query{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      "resolved",
			"resolved_at": now,
			"updated_at":  now,
			"updated_by":  principal.ID,
		})
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("query not found"))
		return
	}
	respondData(c, http.StatusOK, "query resolved", nil)
}

// Delete soft-deactivates a query.
func (h *QueryHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.Query{}).
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
		respondError(c, apierr.NotFound("query not found"))
		return
	}
	respondData(c, http.StatusOK, "query deactivated", nil)
}
