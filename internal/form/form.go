// Package form implements the modal state machine wrapped around every
// create/edit flow: open a draft, clear field errors as the user types,
// validate, submit to the backend, and branch on the outcome without ever
// losing entered data.
package form

import (
	"context"

	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

// State is the lifecycle position of a form.
type State string

const (
	StateClosed     State = "closed"
	StateOpen       State = "open"
	StateSubmitting State = "submitting"
)

// Mode distinguishes create from edit flows.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Form drives one modal around a draft of type T.
type Form[T any] struct {
	state State
	mode  Mode

	draft    T
	defaults T

	errors   map[string]string
	notice   string
	schema   Schema
	sections []string
	section  string

	onSuccess func(result interface{})
}

// Option configures a Form.
type Option[T any] func(*Form[T])

// WithSections wires a field→section schema and the section display order.
func WithSections[T any](schema Schema, order []string) Option[T] {
	return func(f *Form[T]) {
		f.schema = schema
		f.sections = order
	}
}

// WithOnSuccess registers the callback fired after a successful submit,
// before the form closes. Pages use it to reload their collections.
func WithOnSuccess[T any](fn func(result interface{})) Option[T] {
	return func(f *Form[T]) {
		f.onSuccess = fn
	}
}

// New builds a closed form whose create mode starts from defaults.
func New[T any](defaults T, opts ...Option[T]) *Form[T] {
	f := &Form[T]{
		state:    StateClosed,
		defaults: defaults,
		errors:   map[string]string{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current lifecycle state.
func (f *Form[T]) State() State { return f.state }

// Mode returns create or edit; meaningful only while open.
func (f *Form[T]) Mode() Mode { return f.mode }

// Draft returns the current draft value.
func (f *Form[T]) Draft() T { return f.draft }

// Errors returns the live field→message map.
func (f *Form[T]) Errors() map[string]string { return f.errors }

// Notice returns the top-level failure message, if any.
func (f *Form[T]) Notice() string { return f.notice }

// ActiveSection returns the section the form last routed to.
func (f *Form[T]) ActiveSection() string { return f.section }

// OpenCreate opens the form in create mode with default field values.
func (f *Form[T]) OpenCreate() {
	f.reset()
	f.draft = f.defaults
	f.mode = ModeCreate
	f.state = StateOpen
}

// OpenEdit opens the form pre-populated from an existing record. The caller
// converts datetime strings to date-only before handing over the draft.
func (f *Form[T]) OpenEdit(record T) {
	f.reset()
	f.draft = record
	f.mode = ModeEdit
	f.state = StateOpen
}

// Close abandons the form and resets its state.
func (f *Form[T]) Close() {
	f.reset()
}

// SetField applies one field edit and clears that field's error without
// re-validating anything else.
func (f *Form[T]) SetField(field string, apply func(draft *T)) {
	if f.state != StateOpen {
		return
	}
	apply(&f.draft)
	delete(f.errors, field)
}

// Submit validates the draft and, if it passes, calls the backend. On
// validation failure the error map is populated and the first offending
// section becomes active. On a backend validation rejection the reported
// field errors are merged into the same map. Any other failure surfaces as a
// top-level notice; in every failure case the form stays open with the
// entered data intact.
func (f *Form[T]) Submit(ctx context.Context, validate func(T) validation.Result, call func(context.Context, T) (interface{}, error)) {
	if f.state != StateOpen {
		return
	}
	f.notice = ""

	result := validate(f.draft)
	if !result.Valid {
		f.errors = result.Errors
		f.section = FirstSectionWithError(f.errors, f.schema, f.sections)
		return
	}

	f.state = StateSubmitting
	data, err := call(ctx, f.draft)
	if err != nil {
		f.state = StateOpen
		f.applyFailure(err)
		return
	}

	if f.onSuccess != nil {
		f.onSuccess(data)
	}
	f.reset()
}

func (f *Form[T]) applyFailure(err error) {
	appErr := appErrors.FromError(err)
	if appErr.Code == appErrors.ErrBackendValidation.Code && len(appErr.Fields) > 0 {
		for field, msgs := range appErr.Fields {
			if len(msgs) > 0 {
				f.errors[field] = msgs[0]
			}
		}
		f.section = FirstSectionWithError(f.errors, f.schema, f.sections)
		f.notice = appErr.FirstField()
		return
	}
	f.notice = appErr.Message
}

func (f *Form[T]) reset() {
	var zero T
	f.draft = zero
	f.errors = map[string]string{}
	f.notice = ""
	f.section = ""
	f.mode = ""
	f.state = StateClosed
}
