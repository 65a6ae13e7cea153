package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/models"
)

func newsRouter(t *testing.T, conn *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewNewsHandler(conn)
	router := gin.New()
	router.Use(withPrincipal(adminPrincipal()))
	router.GET("/api/news", handler.List)
	router.GET("/api/news/:id", handler.Get)
	router.POST("/api/news", handler.Create)
	router.PATCH("/api/news/:id", handler.Update)
	router.DELETE("/api/news/:id", handler.Delete)
	return router
}

func seedNews(t *testing.T, conn *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		category := "press"
		if i%2 == 0 {
			category = "community"
		}
		row := models.News{
			Title:     fmt.Sprintf("Headline %02d", i),
			Summary:   "summary",
			Category:  category,
			Priority:  "normal",
			IsActive:  true,
			CreatedBy: 1,
		}
		if errCreate := conn.Create(&row).Error; errCreate != nil {
			t.Fatalf("seed news %d: %v", i, errCreate)
		}
	}
}

type pageEnvelope struct {
	Items      []json.RawMessage `json:"items"`
	TotalItems int64             `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	Message    string            `json:"message"`
	StatusCode int               `json:"status_code"`
}

func decodePage(t *testing.T, body []byte) pageEnvelope {
	t.Helper()
	var env pageEnvelope
	if errDecode := json.Unmarshal(body, &env); errDecode != nil {
		t.Fatalf("decode page envelope: %v", errDecode)
	}
	return env
}

func TestNewsListPaginates(t *testing.T) {
	conn := setupHandlerDB(t)
	seedNews(t, conn, 25)
	router := newsRouter(t, conn)

	req := httptest.NewRequest(http.MethodGet, "/api/news?page=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	env := decodePage(t, w.Body.Bytes())
	if env.TotalItems != 25 {
		t.Fatalf("expected 25 total items, got %d", env.TotalItems)
	}
	if env.TotalPages != 3 {
		t.Fatalf("expected 3 pages at the default limit of 10, got %d", env.TotalPages)
	}
	if env.Page != 2 || len(env.Items) != 10 {
		t.Fatalf("expected 10 items on page 2, got page=%d items=%d", env.Page, len(env.Items))
	}
	if env.StatusCode != http.StatusOK {
		t.Fatalf("expected status_code 200 in envelope, got %d", env.StatusCode)
	}
}

func TestNewsListSearchAndFilter(t *testing.T) {
	conn := setupHandlerDB(t)
	seedNews(t, conn, 12)
	router := newsRouter(t, conn)

	req := httptest.NewRequest(http.MethodGet, "/api/news?search=headline+03", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	env := decodePage(t, w.Body.Bytes())
	if env.TotalItems != 1 {
		t.Fatalf("expected one search match, got %d", env.TotalItems)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/news?category=community&limit=50", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	env = decodePage(t, w.Body.Bytes())
	if env.TotalItems != 6 {
		t.Fatalf("expected 6 community articles, got %d", env.TotalItems)
	}

	// A sentinel filter value is the same as no filter.
	req = httptest.NewRequest(http.MethodGet, "/api/news?category=All+Categories&limit=50", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	env = decodePage(t, w.Body.Bytes())
	if env.TotalItems != 12 {
		t.Fatalf("expected sentinel filter skipped, got %d items", env.TotalItems)
	}
}

func TestNewsListRejectsBadPaging(t *testing.T) {
	conn := setupHandlerDB(t)
	router := newsRouter(t, conn)

	req := httptest.NewRequest(http.MethodGet, "/api/news?limit=0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for limit=0, got %d", w.Code)
	}
}

func TestNewsGetBumpsViewCounter(t *testing.T) {
	conn := setupHandlerDB(t)
	seedNews(t, conn, 1)
	router := newsRouter(t, conn)

	var before models.News
	if errFind := conn.First(&before).Error; errFind != nil {
		t.Fatalf("find seeded news: %v", errFind)
	}

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/news/%d", before.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	}

	var after models.News
	if errFind := conn.First(&after, before.ID).Error; errFind != nil {
		t.Fatalf("reload news: %v", errFind)
	}
	if after.Views != before.Views+3 {
		t.Fatalf("expected views %d, got %d", before.Views+3, after.Views)
	}
}

func TestNewsGetUnknownIDIsNotFound(t *testing.T) {
	conn := setupHandlerDB(t)
	router := newsRouter(t, conn)

	req := httptest.NewRequest(http.MethodGet, "/api/news/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestNewsCreateDuplicateTitleConflicts(t *testing.T) {
	conn := setupHandlerDB(t)
	router := newsRouter(t, conn)

	body := `{"title":"Budget Townhall","summary":"s","body":"b","category":"press"}`
	req := httptest.NewRequest(http.MethodPost, "/api/news", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/news", strings.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on duplicate title, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	if errCount := conn.Model(&models.News{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count news: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected a single article after the rejected duplicate, got %d", count)
	}
}

func TestNewsUpdatePartialMerge(t *testing.T) {
	conn := setupHandlerDB(t)
	seedNews(t, conn, 1)
	router := newsRouter(t, conn)

	var row models.News
	if errFind := conn.First(&row).Error; errFind != nil {
		t.Fatalf("find seeded news: %v", errFind)
	}

	body := `{"priority":"high"}`
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/news/%d", row.ID), strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var after models.News
	if errFind := conn.First(&after, row.ID).Error; errFind != nil {
		t.Fatalf("reload news: %v", errFind)
	}
	if after.Priority != "high" {
		t.Fatalf("expected priority high, got %q", after.Priority)
	}
	if after.Title != row.Title {
		t.Fatalf("expected untouched title to survive, got %q", after.Title)
	}
	if after.UpdatedBy == nil || *after.UpdatedBy != 1 {
		t.Fatalf("expected updated_by stamped, got %v", after.UpdatedBy)
	}
}

func TestNewsDeleteIsSoft(t *testing.T) {
	conn := setupHandlerDB(t)
	seedNews(t, conn, 1)
	router := newsRouter(t, conn)

	var row models.News
	if errFind := conn.First(&row).Error; errFind != nil {
		t.Fatalf("find seeded news: %v", errFind)
	}

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/news/%d", row.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var after models.News
	if errFind := conn.First(&after, row.ID).Error; errFind != nil {
		t.Fatalf("expected row to survive soft delete: %v", errFind)
	}
	if after.IsActive {
		t.Fatal("expected is_active=false after delete")
	}
}
