// Package listing implements the shared paginated query capability
// used by every resource list endpoint: free-text search over a fixed
// set of columns, exact-match structured filters, bounded sorting and
// page/limit slicing with an exact total count.
package listing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/apierr"
	dbutil "github.com/orgdesk/orgdesk/internal/db"
)

// Spec describes how one resource is listed: which columns free-text
// search applies to, which sort keys are accepted, and the bounds.
type Spec struct {
	SearchColumns []string          // Columns matched case-insensitively by the search term.
	SortColumns   map[string]string // Accepted sort keys mapped to column names.
	DefaultSort   string            // ORDER BY expression when no sort key is given.
	MaxLimit      int               // Upper bound for the page size, 0 means 100.
}

// Params carries the caller-supplied list parameters after binding.
type Params struct {
	Page    int            // 1-based page number.
	Limit   int            // Page size, must be >= 1.
	Search  string         // Free-text search term.
	Filters map[string]any // Column -> exact value. String sentinel values are skipped.
	Sort    string         // Sort key, resolved through Spec.SortColumns.
	Desc    bool           // Descending order for the resolved sort key.
}

// Result is the canonical page shape shared by all list endpoints.
type Result[T any] struct {
	Items      []T
	TotalItems int64
	TotalPages int
	Page       int
}

// sentinelFilter reports whether a filter value means "no filter".
// Covers "", "all" and labels like "All Categories".
func sentinelFilter(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower == "" || lower == "all" || strings.HasPrefix(lower, "all ")
}

// Run executes the paginated query for model T. The count and the
// page slice are produced from the same predicate, so
// TotalPages == ceil(TotalItems/Limit) is exact. A page past the last
// one yields an empty item list, not an error.
func Run[T any](ctx context.Context, conn *gorm.DB, spec Spec, p Params) (Result[T], error) {
	var out Result[T]
	if conn == nil {
		return out, apierr.Internal(fmt.Errorf("listing: nil connection"))
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Page < 1 {
		return out, apierr.InvalidArgument("page must be a positive number")
	}
	if p.Limit < 1 {
		return out, apierr.InvalidArgument("limit must be a positive number")
	}
	maxLimit := spec.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	order, errOrder := resolveOrder(spec, p)
	if errOrder != nil {
		return out, errOrder
	}

	base := func() *gorm.DB {
		tx := conn.WithContext(ctx).Model(new(T))
		return applyPredicate(conn, tx, spec, p)
	}

	var total int64
	if errCount := base().Count(&total).Error; errCount != nil {
		return out, apierr.Internal(errCount)
	}

	items := make([]T, 0, p.Limit)
	errFind := base().
		Order(order).
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&items).Error
	if errFind != nil {
		return out, apierr.Internal(errFind)
	}

	out.Items = items
	out.TotalItems = total
	out.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	out.Page = p.Page
	return out, nil
}

// applyPredicate attaches the search and filter conditions shared by
// the count and the page queries.
func applyPredicate(conn, tx *gorm.DB, spec Spec, p Params) *gorm.DB {
	search := strings.TrimSpace(p.Search)
	if search != "" && len(spec.SearchColumns) > 0 {
		pattern := dbutil.NormalizeLikePattern(conn, "%"+search+"%")
		group := conn.Session(&gorm.Session{NewDB: true}).
			Where(dbutil.CaseInsensitiveLikeExpr(conn, spec.SearchColumns[0]), pattern)
		for _, column := range spec.SearchColumns[1:] {
			group = group.Or(dbutil.CaseInsensitiveLikeExpr(conn, column), pattern)
		}
		tx = tx.Where(group)
	}
	for column, value := range p.Filters {
		if text, ok := value.(string); ok {
			if sentinelFilter(text) {
				continue
			}
			tx = tx.Where(fmt.Sprintf("%s = ?", column), strings.TrimSpace(text))
			continue
		}
		tx = tx.Where(fmt.Sprintf("%s = ?", column), value)
	}
	return tx
}

// resolveOrder maps the requested sort key onto an ORDER BY clause.
func resolveOrder(spec Spec, p Params) (string, error) {
	sortKey := strings.TrimSpace(p.Sort)
	if sortKey == "" {
		if spec.DefaultSort != "" {
			return spec.DefaultSort, nil
		}
		return "created_at DESC", nil
	}
	column, ok := spec.SortColumns[sortKey]
	if !ok {
		return "", apierr.InvalidArgument(fmt.Sprintf("unknown sort key %q", sortKey))
	}
	if p.Desc {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}
