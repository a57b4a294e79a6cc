package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error lists the fields that failed validation.
type Error struct {
	// Fields maps a field name to a readable message.
	Fields map[string]string `json:"fields"`
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with readable messages.
type Validator struct {
	v *validator.Validate
}

// New creates a validator naming fields after the given struct tag
// ("json" for requests, "mapstructure" for configuration).
func New(tag string) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate checks a struct and returns an *Error for field failures.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Error{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fieldPath(fe)] = message(fe)
	}
	return out
}

// fieldPath drops the root struct name from the namespace, so nested
// configuration fields read as compose.fuzzy_threshold.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte", "min":
		return "must be greater than or equal to " + fe.Param()
	case "lte", "max":
		return "must be less than or equal to " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
