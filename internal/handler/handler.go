// Package handler exposes the console gateway endpoints. Handlers stay
// thin: parse the request, call the owning view service, write the shared
// response envelope.
package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ishuri/school-console/internal/listview"
)

// ListSettings bounds client-controlled paging on every list endpoint.
// Both values come from the views configuration.
type ListSettings struct {
	DefaultPageSize  int
	AllowedPageSizes []int
}

// pageSize clamps a requested size to the allow list. Unknown or missing
// sizes fall back to the default.
func (s ListSettings) pageSize(requested int) int {
	fallback := s.DefaultPageSize
	if fallback <= 0 {
		fallback = 10
	}
	if requested <= 0 {
		return fallback
	}
	if len(s.AllowedPageSizes) == 0 {
		return requested
	}
	for _, allowed := range s.AllowedPageSizes {
		if requested == allowed {
			return requested
		}
	}
	return fallback
}

// listQuery builds a pipeline query from the request. Filter names are
// passed per handler so unknown query keys are never treated as filters.
func listQuery(c *gin.Context, settings ListSettings, filterNames ...string) listview.Query {
	q := listview.Query{
		Search:    strings.TrimSpace(c.Query("search")),
		SortKey:   c.Query("sort"),
		SortOrder: listview.SortOrder(c.DefaultQuery("order", string(listview.SortAsc))),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = page
	}
	size, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		size = 0
	}
	q.PageSize = settings.pageSize(size)
	if len(filterNames) > 0 {
		q.Filters = make(map[string]string, len(filterNames))
		for _, name := range filterNames {
			if v := c.Query(name); v != "" {
				q.Filters[name] = v
			}
		}
	}
	return q
}

// pagination converts a pipeline result into the response contract.
func pagination[T any](p listview.Page[T], q listview.Query) *listview.Pagination {
	return &listview.Pagination{
		Page:       p.Page,
		PageSize:   q.PageSize,
		TotalCount: p.Total,
		TotalPages: p.TotalPages,
	}
}

// cached reports whether the request asked to page the in-memory collection
// without a backend reload.
func cached(c *gin.Context) bool {
	return c.Query("cached") == "true"
}
