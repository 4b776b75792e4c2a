// Package service holds the console view services: each owns the transient,
// possibly stale copy of one backend collection, the derived view state
// (filter/sort/page, progressive enrichment, caches), and the mutation flows
// around it. Caches live on the service instance and die with it; nothing
// here is process-global.
package service

import (
	"strings"

	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

// validationError lifts a failed draft validation into the console error
// taxonomy so handlers render it exactly like a backend rejection.
func validationError(result validation.Result) error {
	fields := make(map[string][]string, len(result.Errors))
	first := ""
	for field, msg := range result.Errors {
		fields[field] = []string{msg}
		if first == "" {
			first = msg
		}
	}
	return appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, first), fields)
}

func compareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64s(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
