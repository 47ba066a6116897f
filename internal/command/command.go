// Package command defines the input DTOs for set and word use cases
// together with their validation rules.
package command

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

// Validation limits.
const (
	MaxSetNameLength     = 200
	MaxWordLength        = 200
	MaxTranslationLength = 200
	MaxTranslations      = 20
	MaxEntries           = 1000
	MaxBulkDeleteIDs     = 100
)

// Tag aliases used by the command structs. They keep the limits above as the
// single source for the validate tags.
var tagAliases = map[string]string{
	"setname":      fmt.Sprintf("required,max=%d", MaxSetNameLength),
	"entries":      fmt.Sprintf("min=1,max=%d", MaxEntries),
	"word":         fmt.Sprintf("required,max=%d", MaxWordLength),
	"translations": fmt.Sprintf("min=1,max=%d", MaxTranslations),
	"translation":  fmt.Sprintf("required,max=%d", MaxTranslationLength),
	"bulkids":      fmt.Sprintf("min=1,max=%d", MaxBulkDeleteIDs),
}

// ValidationError reports the fields of a command that failed validation.
// Keys are JSON field paths, e.g. "entries[0].word".
type ValidationError struct {
	Fields map[string]string
}

// Error implements error.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance returns the shared validator. Field names in errors use
// the json tag so messages match the request body.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		for alias, tags := range tagAliases {
			validate.RegisterAlias(alias, tags)
		}
		if err := validate.RegisterValidation("wordtype", isWordType); err != nil {
			panic(err)
		}
	})
	return validate
}

// validateStruct runs struct validation and converts failures into a *ValidationError.
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fieldPath(fe.Namespace())] = describe(fe)
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func isWordType(fl validator.FieldLevel) bool {
	return slices.Contains(model.ValidWordTypes, fl.Field().String())
}

// describe turns a field error into a message. Aliases report the tag that
// actually failed.
func describe(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "wordtype":
		return "must be one of: " + strings.Join(model.ValidWordTypes, ", ")
	default:
		return "is invalid"
	}
}
