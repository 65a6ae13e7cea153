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

// NewsHandler manages news article endpoints.
type NewsHandler struct {
	db *gorm.DB
}

// NewNewsHandler constructs a NewsHandler.
func NewNewsHandler(db *gorm.DB) *NewsHandler {
	return &NewsHandler{db: db}
}

// newsListSpec wires the news collection into the shared paginated
// query capability.
var newsListSpec = listing.Spec{
	SearchColumns: []string{"title"},
	SortColumns: map[string]string{
		"createdAt": "created_at",
		"title":     "title",
		"views":     "views",
	},
	DefaultSort: "created_at DESC",
}

// newsListQuery defines filters for the news list view.
type newsListQuery struct {
	Page     int    `form:"page,default=1"`   // Page number.
	Limit    int    `form:"limit,default=10"` // Page size.
	Search   string `form:"search"`           // Title search term.
	Category string `form:"category"`         // Category filter.
	Priority string `form:"priority"`         // Priority filter.
	Active   string `form:"isActive"`         // Soft-delete filter.
	Sort     string `form:"sort"`             // Sort key.
	Order    string `form:"order"`            // asc or desc.
}

// List returns news articles with paging, search and filters.
func (h *NewsHandler) List(c *gin.Context) {
	var q newsListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid query parameters"))
		return
	}
	filters := map[string]any{
		"category": q.Category,
		"priority": q.Priority,
	}
	if active, ok := parseBoolFilter(q.Active); ok {
		filters["is_active"] = active
	}
	res, errRun := listing.Run[models.News](c.Request.Context(), h.db, newsListSpec, listing.Params{
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

// Get returns a single article and atomically bumps its view counter.
func (h *NewsHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}

	ctx := c.Request.Context()
	bump := h.db.WithContext(ctx).Model(&models.News{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if bump.Error != nil {
		respondError(c, apierr.Internal(bump.Error))
		return
	}
	if bump.RowsAffected == 0 {
		respondError(c, apierr.NotFound("news not found"))
		return
	}

	var row models.News
	if errFind := h.db.WithContext(ctx).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "news not found"))
		return
	}
	respondData(c, http.StatusOK, "OK", row)
}

// createNewsRequest defines the request body for article creation.
type createNewsRequest struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	ImageURL string `json:"imageUrl"`
}

// Create persists a new article. Duplicate titles are rejected by the
// unique index and reported as a conflict.
func (h *NewsHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var body createNewsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		respondError(c, apierr.InvalidArgument("title is required"))
		return
	}
	priority := strings.TrimSpace(body.Priority)
	if priority == "" {
		priority = "normal"
	}

	row := models.News{
		Title:     title,
		Summary:   strings.TrimSpace(body.Summary),
		Body:      body.Body,
		Category:  strings.TrimSpace(body.Category),
		Priority:  priority,
		ImageURL:  strings.TrimSpace(body.ImageURL),
		IsActive:  true,
		CreatedBy: principal.ID,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		respondError(c, translateStoreError(errCreate, "news with this title already exists", "news not found"))
		return
	}
	respondData(c, http.StatusCreated, "news created", row)
}

// updateNewsRequest defines the request body for partial updates.
type updateNewsRequest struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
	Priority *string `json:"priority"`
	ImageURL *string `json:"imageUrl"`
	IsActive *bool   `json:"isActive"`
}

// Update applies a partial field merge and stamps the updater.
func (h *NewsHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body updateNewsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
		"updated_by": principal.ID,
	}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			respondError(c, apierr.InvalidArgument("title cannot be empty"))
			return
		}
		updates["title"] = title
	}
	if body.Summary != nil {
		updates["summary"] = strings.TrimSpace(*body.Summary)
	}
	if body.Body != nil {
		updates["body"] = *body.Body
	}
	if body.Category != nil {
		updates["category"] = strings.TrimSpace(*body.Category)
	}
	if body.Priority != nil {
		updates["priority"] = strings.TrimSpace(*body.Priority)
	}
	if body.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*body.ImageURL)
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.News{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		respondError(c, translateStoreError(res.Error, "news with this title already exists", "news not found"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("news not found"))
		return
	}

	var row models.News
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "news not found"))
		return
	}
	respondData(c, http.StatusOK, "news updated", row)
}

// Delete soft-deactivates an article so it can be restored later.
func (h *NewsHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.News{}).
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
		respondError(c, apierr.NotFound("news not found"))
		return
	}
	respondData(c, http.StatusOK, "news deactivated", nil)
}
