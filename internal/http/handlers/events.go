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

// EventHandler manages event endpoints.
type EventHandler struct {
	db *gorm.DB
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{db: db}
}

var eventListSpec = listing.Spec{
	SearchColumns: []string{"title", "venue"},
	SortColumns: map[string]string{
		"createdAt": "created_at",
		"date":      "date",
		"title":     "title",
	},
	DefaultSort: "created_at DESC",
}

// eventListQuery defines filters for the event list view.
type eventListQuery struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
}

// List returns events with paging, search and filters.
func (h *EventHandler) List(c *gin.Context) {
	var q eventListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid query parameters"))
		return
	}
	res, errRun := listing.Run[models.Event](c.Request.Context(), h.db, eventListSpec, listing.Params{
		Page:   q.Page,
		Limit:  q.Limit,
		Search: q.Search,
		Filters: map[string]any{
			"category": q.Category,
			"status":   q.Status,
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

// Get returns a single event.
func (h *EventHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var row models.Event
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "event not found"))
		return
	}
	respondData(c, http.StatusOK, "OK", row)
}

// createEventRequest defines the request body for event creation.
type createEventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// eventDateLayouts lists the accepted date encodings.
var eventDateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseEventDate parses the event date from the request body.
func parseEventDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range eventDateLayouts {
		if parsed, errParse := time.Parse(layout, trimmed); errParse == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, apierr.InvalidArgument("date must be RFC3339 or YYYY-MM-DD")
}

// Create persists a new event. Resubmitting the same title and date
// hits the unique index and is reported as a conflict.
func (h *EventHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var body createEventRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		respondError(c, apierr.InvalidArgument("title is required"))
		return
	}
	date, errDate := parseEventDate(body.Date)
	if errDate != nil {
		respondError(c, errDate)
		return
	}
	status := strings.TrimSpace(body.Status)
	if status == "" {
		status = "upcoming"
	}

	row := models.Event{
		Title:       title,
		Date:        date,
		Venue:       strings.TrimSpace(body.Venue),
		Category:    strings.TrimSpace(body.Category),
		Status:      status,
		Description: body.Description,
		ImageURL:    strings.TrimSpace(body.ImageURL),
		CreatedBy:   principal.ID,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		respondError(c, translateStoreError(errCreate, "event with this title and date already exists", "event not found"))
		return
	}
	respondData(c, http.StatusCreated, "event created", row)
}

// updateEventRequest defines the request body for partial updates.
type updateEventRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Venue       *string `json:"venue"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// Update applies a partial field merge and stamps the updater.
func (h *EventHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body updateEventRequest
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
	if body.Date != nil {
		date, errDate := parseEventDate(*body.Date)
		if errDate != nil {
			respondError(c, errDate)
			return
		}
		updates["date"] = date
	}
	if body.Venue != nil {
		updates["venue"] = strings.TrimSpace(*body.Venue)
	}
	if body.Category != nil {
		updates["category"] = strings.TrimSpace(*body.Category)
	}
	if body.Status != nil {
		updates["status"] = strings.TrimSpace(*body.Status)
	}
	if body.Description != nil {
		updates["description"] = *body.Description
	}
	if body.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*body.ImageURL)
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Event{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		respondError(c, translateStoreError(res.Error, "event with this title and date already exists", "event not found"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("event not found"))
		return
	}

	var row models.Event
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "event not found"))
		return
	}
	respondData(c, http.StatusOK, "event updated", row)
}

// Delete removes an event permanently.
func (h *EventHandler) Delete(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Event{}, id)
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("event not found"))
		return
	}
	respondData(c, http.StatusOK, "event deleted", nil)
}
