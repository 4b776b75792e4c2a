package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	Name   string
	Status string
	Level  int
}

var recordAccessors = Accessors[record]{
	SearchFields: []func(record) string{
		func(r record) string { return r.Name },
	},
	FilterFields: map[string]func(record) string{
		"status": func(r record) string { return r.Status },
	},
	SortFields: map[string]func(a, b record) int{
		"level": func(a, b record) int { return a.Level - b.Level },
	},
}

func makeRecords(n int) []record {
	out := make([]record, n)
	for i := range out {
		status := "active"
		if i%2 == 1 {
			status = "inactive"
		}
		out[i] = record{Name: fmt.Sprintf("record-%02d", i), Status: status, Level: n - i}
	}
	return out
}

func TestApplyPaginates(t *testing.T) {
	items := makeRecords(23)
	page := Apply(items, Query{Page: 3, PageSize: 10}, recordAccessors)

	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 23, page.Total)
	assert.Len(t, page.Visible, 3)
}

func TestApplyClampsOutOfRangePage(t *testing.T) {
	items := makeRecords(23)
	page := Apply(items, Query{Page: 9, PageSize: 10}, recordAccessors)

	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Visible, 10)
	assert.Equal(t, "record-00", page.Visible[0].Name)
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	items := []record{{Name: "Aline"}, {Name: "Eric"}, {Name: "Paulin"}}
	page := Apply(items, Query{Search: "  LIN ", Page: 1, PageSize: 10}, recordAccessors)

	assert.Equal(t, 2, page.Total)
}

func TestApplyFilters(t *testing.T) {
	items := makeRecords(10)

	page := Apply(items, Query{Filters: map[string]string{"status": "active"}, Page: 1, PageSize: 10}, recordAccessors)
	assert.Equal(t, 5, page.Total)

	// "all" and unknown filter names are unconstrained
	page = Apply(items, Query{Filters: map[string]string{"status": FilterAny, "shape": "round"}, Page: 1, PageSize: 10}, recordAccessors)
	assert.Equal(t, 10, page.Total)
}

func TestApplySorts(t *testing.T) {
	items := makeRecords(5)

	page := Apply(items, Query{SortKey: "level", SortOrder: SortAsc, Page: 1, PageSize: 10}, recordAccessors)
	assert.Equal(t, 1, page.Visible[0].Level)

	page = Apply(items, Query{SortKey: "level", SortOrder: SortDesc, Page: 1, PageSize: 10}, recordAccessors)
	assert.Equal(t, 5, page.Visible[0].Level)

	// unknown sort keys leave the input order alone
	page = Apply(items, Query{SortKey: "weight", Page: 1, PageSize: 10}, recordAccessors)
	assert.Equal(t, "record-00", page.Visible[0].Name)
}

func TestApplyIsIdempotent(t *testing.T) {
	items := makeRecords(17)
	q := Query{
		Search:    "record",
		Filters:   map[string]string{"status": "active"},
		SortKey:   "level",
		SortOrder: SortDesc,
		Page:      1,
		PageSize:  5,
	}

	first := Apply(items, q, recordAccessors)
	second := Apply(items, q, recordAccessors)
	assert.Equal(t, first, second)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := makeRecords(6)
	Apply(items, Query{SortKey: "level", SortOrder: SortAsc, Page: 1, PageSize: 3}, recordAccessors)
	assert.Equal(t, "record-00", items[0].Name)
}

func TestApplyWindow(t *testing.T) {
	items := makeRecords(30)

	page := ApplyWindow(items, Query{}, recordAccessors, 10)
	assert.Len(t, page.Visible, 10)
	assert.Equal(t, 30, page.Total)

	// a window beyond the collection truncates
	page = ApplyWindow(items, Query{}, recordAccessors, 50)
	assert.Len(t, page.Visible, 30)
}
