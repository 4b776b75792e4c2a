// Package listview implements the client-side filter/sort/paginate pipeline
// shared by every console list page. The full collection stays in memory; the
// pipeline derives the visible slice from it and is recomputed whenever its
// inputs change.
package listview

import (
	"sort"
	"strings"
)

// FilterAny is the filter value meaning "no constraint for this field".
const FilterAny = "all"

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Pagination describes the visible window, in the gateway response contract.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Query is the full input of one pipeline run.
type Query struct {
	Search    string
	Filters   map[string]string
	SortKey   string
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// Accessors teaches the pipeline how to read records of type T.
type Accessors[T any] struct {
	// SearchFields are matched case-insensitively against the search text.
	SearchFields []func(T) string
	// FilterFields map filter names to the record value they constrain.
	FilterFields map[string]func(T) string
	// SortFields map sort keys to a three-way comparison.
	SortFields map[string]func(a, b T) int
}

// Page is the result of one pipeline run.
type Page[T any] struct {
	Visible    []T
	Page       int
	TotalPages int
	Total      int
}

// Apply narrows items to the visible page. Filters are ANDed; an absent or
// "all" filter value is unconstrained. A page beyond the filtered range
// clamps back to page 1 rather than returning an empty slice.
func Apply[T any](items []T, q Query, acc Accessors[T]) Page[T] {
	filtered := narrow(items, q, acc)
	sortRecords(filtered, q, acc)

	size := q.PageSize
	if size <= 0 {
		size = 10
	}
	totalPages := (len(filtered) + size - 1) / size

	page := q.Page
	if page < 1 || page > totalPages {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page[T]{
		Visible:    filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      len(filtered),
	}
}

// ApplyWindow is the "load more" variant: the visible window covers the first
// size records of the filtered, sorted collection.
func ApplyWindow[T any](items []T, q Query, acc Accessors[T], size int) Page[T] {
	filtered := narrow(items, q, acc)
	sortRecords(filtered, q, acc)

	if size <= 0 {
		size = 10
	}
	if size > len(filtered) {
		size = len(filtered)
	}

	return Page[T]{
		Visible:    filtered[:size],
		Page:       1,
		TotalPages: 1,
		Total:      len(filtered),
	}
}

func narrow[T any](items []T, q Query, acc Accessors[T]) []T {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]T, 0, len(items))

	for _, item := range items {
		if !matchesFilters(item, q.Filters, acc) {
			continue
		}
		if search != "" && !matchesSearch(item, search, acc) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesFilters[T any](item T, filters map[string]string, acc Accessors[T]) bool {
	for field, want := range filters {
		if want == "" || want == FilterAny {
			continue
		}
		get, ok := acc.FilterFields[field]
		if !ok {
			continue
		}
		if get(item) != want {
			return false
		}
	}
	return true
}

func matchesSearch[T any](item T, search string, acc Accessors[T]) bool {
	for _, get := range acc.SearchFields {
		if strings.Contains(strings.ToLower(get(item)), search) {
			return true
		}
	}
	return false
}

func sortRecords[T any](items []T, q Query, acc Accessors[T]) {
	if q.SortKey == "" {
		return
	}
	cmp, ok := acc.SortFields[q.SortKey]
	if !ok {
		return
	}
	desc := q.SortOrder == SortDesc
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return cmp(items[i], items[j]) > 0
		}
		return cmp(items[i], items[j]) < 0
	})
}
