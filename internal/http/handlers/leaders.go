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

// LeaderHandler manages leadership profile endpoints.
type LeaderHandler struct {
	db *gorm.DB
}

// NewLeaderHandler constructs a LeaderHandler.
func NewLeaderHandler(db *gorm.DB) *LeaderHandler {
	return &LeaderHandler{db: db}
}

var leaderListSpec = listing.Spec{
	SearchColumns: []string{"name", "designation"},
	SortColumns: map[string]string{
		"createdAt": "created_at",
		"name":      "name",
	},
	DefaultSort: "created_at DESC",
}

// leaderListQuery defines filters for the leader list view.
type leaderListQuery struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Search string `form:"search"`
	Cadre  string `form:"cadre"`
	Active string `form:"isActive"`
	Sort   string `form:"sort"`
	Order  string `form:"order"`
}

// List returns leader profiles with paging, search and filters.
func (h *LeaderHandler) List(c *gin.Context) {
	var q leaderListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid query parameters"))
		return
	}
	filters := map[string]any{"cadre": q.Cadre}
	if active, ok := parseBoolFilter(q.Active); ok {
		filters["is_active"] = active
	}
	res, errRun := listing.Run[models.Leader](c.Request.Context(), h.db, leaderListSpec, listing.Params{
		Page:    q.Page,
		Limit:   q.Limit,
		Search:  q.Search,
		Filters: filters,
		Sort:    q.Sort,
		Desc:    sortDesc(q.Order),
	})
	if errRun != nil {
		respondError(c, errRun)
		return
	}
	respondPage(c, res)
}

// Get returns a single leader profile.
func (h *LeaderHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var row models.Leader
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "leader not found"))
		return
	}
	respondData(c, http.StatusOK, "OK", row)
}

// createLeaderRequest defines the request body for profile creation.
type createLeaderRequest struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Cadre       string `json:"cadre"`
	Bio         string `json:"bio"`
	PhotoURL    string `json:"photoUrl"`
}

// Create persists a new leader profile.
func (h *LeaderHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var body createLeaderRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		respondError(c, apierr.InvalidArgument("name is required"))
		return
	}

	row := models.Leader{
		Name:        name,
		Designation: strings.TrimSpace(body.Designation),
		Cadre:       strings.TrimSpace(body.Cadre),
		Bio:         body.Bio,
		PhotoURL:    strings.TrimSpace(body.PhotoURL),
		IsActive:    true,
		CreatedBy:   principal.ID,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		respondError(c, apierr.Internal(errCreate))
		return
	}
	respondData(c, http.StatusCreated, "leader created", row)
}

// updateLeaderRequest defines the request body for partial updates.
type updateLeaderRequest struct {
	Name        *string `json:"name"`
	Designation *string `json:"designation"`
	Cadre       *string `json:"cadre"`
	Bio         *string `json:"bio"`
	PhotoURL    *string `json:"photoUrl"`
	IsActive    *bool   `json:"isActive"`
}

// Update applies a partial field merge and stamps the updater.
func (h *LeaderHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body updateLeaderRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
		"updated_by": principal.ID,
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			respondError(c, apierr.InvalidArgument("name cannot be empty"))
			return
		}
		updates["name"] = name
	}
	if body.Designation != nil {
		updates["designation"] = strings.TrimSpace(*body.Designation)
	}
	if body.Cadre != nil {
		updates["cadre"] = strings.TrimSpace(*body.Cadre)
	}
	if body.Bio != nil {
		updates["bio"] = *body.Bio
	}
	if body.PhotoURL != nil {
		updates["photo_url"] = strings.TrimSpace(*body.PhotoURL)
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Leader{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("leader not found"))
		return
	}

	var row models.Leader
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "leader not found"))
		return
	}
	respondData(c, http.StatusOK, "leader updated", row)
}

// Delete removes a leader profile permanently.
func (h *LeaderHandler) Delete(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Leader{}, id)
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("leader not found"))
		return
	}
	respondData(c, http.StatusOK, "leader deleted", nil)
}
