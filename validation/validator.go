package validation

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kbukum/callanalyzer/errors"
)

// FieldError is one failed check, reported in the details of the
// INVALID_INPUT response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string { return e.Field + ": " + e.Message }

// Validator accumulates failed checks so a caller sees all of them at once.
// The check methods chain:
//
//	err := validation.New().
//	    OneOf("provider", p, providers).
//	    Custom(len(data) > 0, "file", "is empty").
//	    Validate()
type Validator struct {
	failed []FieldError
}

func New() *Validator { return &Validator{} }

func (v *Validator) AddError(field, message string) {
	v.failed = append(v.failed, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.failed) > 0 }

func (v *Validator) Errors() []FieldError { return v.failed }

// Validate returns nil, or an INVALID_INPUT AppError whose message joins
// every failure and whose details list them.
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}
	msgs := make([]string, len(v.failed))
	for i, f := range v.failed {
		msgs[i] = f.String()
	}
	appErr := errors.Validation(strings.Join(msgs, "; "))
	appErr.Details = map[string]any{"fields": v.failed}
	return appErr
}

// Custom records message for field unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// OneOf accepts an empty value or one of allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	return v.Custom(value == "" || slices.Contains(allowed, value),
		field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// AtMostOne flags every present field, in name order, when more than one of
// the mutually exclusive fields is set.
func (v *Validator) AtMostOne(present map[string]bool) *Validator {
	names := slices.Sorted(maps.Keys(present))
	var set []string
	for _, name := range names {
		if present[name] {
			set = append(set, name)
		}
	}
	if len(set) < 2 {
		return v
	}
	msg := "provide only one of: " + strings.Join(names, ", ")
	for _, name := range set {
		v.AddError(name, msg)
	}
	return v
}
