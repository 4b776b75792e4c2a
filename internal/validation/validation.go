// Package validation checks form drafts before they are submitted to the
// backend. It is a fail-fast UX layer only: the backend re-validates
// everything and remains the source of truth.
package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Result is the outcome of validating a draft: an overall flag plus one
// message per offending field, keyed by JSON field name.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Error returns the message recorded for field, if any.
func (r Result) Error(field string) string {
	return r.Errors[field]
}

func newResult() Result {
	return Result{Valid: true, Errors: map[string]string{}}
}

// AddError records a field error unless the field already has one; required
// errors registered first keep precedence over cross-field checks.
func (r *Result) AddError(field, message string) {
	if _, exists := r.Errors[field]; exists {
		return
	}
	if r.Errors == nil {
		r.Errors = map[string]string{}
	}
	r.Errors[field] = message
	r.Valid = false
}

// check runs struct-tag validation on draft and folds the outcome into a
// Result. The draft is never mutated.
func check(draft interface{}) Result {
	result := newResult()
	err := validate.Struct(draft)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.AddError("_", "invalid form data")
		return result
	}
	for _, fe := range fieldErrs {
		result.AddError(fe.Field(), fe.Translate(translator))
	}
	return result
}

func parseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	return t, err == nil
}

// parseAmount accepts only a plain non-negative integer string. Anything else
// is rejected before coercion is trusted.
func parseAmount(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
