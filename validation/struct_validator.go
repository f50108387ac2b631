package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/callanalyzer/errors"
)

// structValidator reports fields by their json or form name.
var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)
	return v
})

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return snakeCase(f.Name)
}

// Validate checks the `validate` tags of s. Failures come back as one
// INVALID_INPUT AppError listing every field.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Validation("validation failed")
	}
	v := New()
	for _, fe := range fieldErrs {
		v.AddError(fieldPath(fe), describe(fe))
	}
	return v.Validate()
}

// fieldPath drops the struct name: DeriveRequest.segments[3].end becomes
// segments[3].end.
func fieldPath(fe validator.FieldError) string {
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
		return path
	}
	return fe.Field()
}

var tagMessages = map[string]func(fe validator.FieldError) string{
	"required": func(validator.FieldError) string { return "is required" },
	"url":      func(validator.FieldError) string { return "must be a valid URL" },
	"http_url": func(validator.FieldError) string { return "must be a valid URL" },
	"oneof":    func(fe validator.FieldError) string { return "must be one of: " + fe.Param() },
	"gte":      func(fe validator.FieldError) string { return "must be greater than or equal to " + fe.Param() },
	"max":      func(fe validator.FieldError) string { return "must be at most " + fe.Param() + " characters" },
	"gtefield": func(fe validator.FieldError) string { return "must not be before " + snakeCase(fe.Param()) },
	"excluded_with": func(fe validator.FieldError) string {
		return "cannot be combined with " + snakeCase(fe.Param())
	},
	"min": func(fe validator.FieldError) string {
		if k := fe.Kind(); k == reflect.Slice || k == reflect.String {
			return "must have at least " + fe.Param() + " items"
		}
		return "must be at least " + fe.Param()
	},
}

func describe(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg(fe)
	}
	return "is invalid"
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
