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

// VideoHandler manages video endpoints.
type VideoHandler struct {
	db *gorm.DB
}

// NewVideoHandler constructs a VideoHandler.
func NewVideoHandler(db *gorm.DB) *VideoHandler {
	return &VideoHandler{db: db}
}

var videoListSpec = listing.Spec{
	SearchColumns: []string{"title"},
	SortColumns: map[string]string{
		"createdAt": "created_at",
		"title":     "title",
		"views":     "views",
	},
	DefaultSort: "created_at DESC",
}

// videoListQuery defines filters for the video list view. The video
// grid shows twelve tiles per page.
type videoListQuery struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=12"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
}

// List returns videos with paging, search and filters.
func (h *VideoHandler) List(c *gin.Context) {
	var q videoListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid query parameters"))
		return
	}
	res, errRun := listing.Run[models.Video](c.Request.Context(), h.db, videoListSpec, listing.Params{
		Page:    q.Page,
		Limit:   q.Limit,
		Search:  q.Search,
		Filters: map[string]any{"category": q.Category},
		Sort:    q.Sort,
		Desc:    sortDesc(q.Order),
	})
	if errRun != nil {
		respondError(c, errRun)
		return
	}
	respondPage(c, res)
}

// Get returns a single video and atomically bumps its view counter.
func (h *VideoHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}

	ctx := c.Request.Context()
	bump := h.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if bump.Error != nil {
		respondError(c, apierr.Internal(bump.Error))
		return
	}
	if bump.RowsAffected == 0 {
		respondError(c, apierr.NotFound("video not found"))
		return
	}

	var row models.Video
	if errFind := h.db.WithContext(ctx).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "video not found"))
		return
	}
	respondData(c, http.StatusOK, "OK", row)
}

// createVideoRequest defines the request body for video creation.
type createVideoRequest struct {
	Title     string `json:"title"`
	VideoURL  string `json:"videoUrl"`
	Category  string `json:"category"`
	Thumbnail string `json:"thumbnail"`
}

// Create persists a new video. The same title and URL pair hits the
// unique index and is reported as a conflict.
func (h *VideoHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var body createVideoRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	title := strings.TrimSpace(body.Title)
	videoURL := strings.TrimSpace(body.VideoURL)
	if title == "" || videoURL == "" {
		respondError(c, apierr.InvalidArgument("title and videoUrl are required"))
		return
	}

	row := models.Video{
		Title:     title,
		VideoURL:  videoURL,
		Category:  strings.TrimSpace(body.Category),
		Thumbnail: strings.TrimSpace(body.Thumbnail),
		CreatedBy: principal.ID,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		respondError(c, translateStoreError(errCreate, "video with this title and url already exists", "video not found"))
		return
	}
	respondData(c, http.StatusCreated, "video created", row)
}

// updateVideoRequest defines the request body for partial updates.
type updateVideoRequest struct {
	Title     *string `json:"title"`
	VideoURL  *string `json:"videoUrl"`
	Category  *string `json:"category"`
	Thumbnail *string `json:"thumbnail"`
}

// Update applies a partial field merge and stamps the updater.
func (h *VideoHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body updateVideoRequest
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
	if body.VideoURL != nil {
		videoURL := strings.TrimSpace(*body.VideoURL)
		if videoURL == "" {
			respondError(c, apierr.InvalidArgument("videoUrl cannot be empty"))
			return
		}
		updates["video_url"] = videoURL
	}
	if body.Category != nil {
		updates["category"] = strings.TrimSpace(*body.Category)
	}
	if body.Thumbnail != nil {
		updates["thumbnail"] = strings.TrimSpace(*body.Thumbnail)
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Video{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		respondError(c, translateStoreError(res.Error, "video with this title and url already exists", "video not found"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("video not found"))
		return
	}

	var row models.Video
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "video not found"))
		return
	}
	respondData(c, http.StatusOK, "video updated", row)
}

// Delete removes a video permanently.
func (h *VideoHandler) Delete(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Video{}, id)
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("video not found"))
		return
	}
	respondData(c, http.StatusOK, "video deleted", nil)
}
