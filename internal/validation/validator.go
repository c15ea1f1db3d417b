// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ErrInvalid is matched by every *StructError.
var ErrInvalid = errors.New("validation failed")

// byteSizePattern accepts DuckDB memory settings.
var byteSizePattern = regexp.MustCompile(`^(?i)(\d+(\.\d+)?\s*(b|kb|kib|mb|mib|gb|gib|tb|tib)|\d{1,3}%)$`)

// FieldError is a single failed rule.
type FieldError struct {
	path    string
	tag     string
	param   string
	value   interface{}
	message string
}

// Path returns the dotted configuration path of the field.
func (e *FieldError) Path() string {
	return e.path
}

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "100" for "max=100").
func (e *FieldError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *FieldError) Value() interface{} {
	return e.value
}

// Error returns a human-readable error message.
func (e *FieldError) Error() string {
	return e.message
}

// StructError collects the field errors of one ValidateStruct call.
type StructError struct {
	errors []FieldError
}

// Errors returns the field errors.
func (se *StructError) Errors() []FieldError {
	return se.errors
}

// Error implements the error interface, returning a combined error message.
func (se *StructError) Error() string {
	if len(se.errors) == 0 {
		return ErrInvalid.Error()
	}

	messages := make([]string, len(se.errors))
	for i := range se.errors {
		messages[i] = se.errors[i].Error()
	}
	return strings.Join(messages, "; ")
}

// Is reports whether target is ErrInvalid.
func (se *StructError) Is(target error) bool {
	return target == ErrInvalid
}

// GetValidator returns the singleton validator instance.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})

		//nolint:errcheck // registration only fails for an empty tag
		_ = validate.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
			return byteSizePattern.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes.
func ValidateStruct(s interface{}) *StructError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &StructError{
			errors: []FieldError{{path: "unknown", tag: "unknown", message: err.Error()}},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		path := fieldPath(fieldErr.Namespace())
		fieldErrors[i] = FieldError{
			path:    path,
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr, path),
		}
	}

	return &StructError{errors: fieldErrors}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":      "%s is required",
	"bytesize":      "%s must be a memory size such as 512MB or 75%%",
	"hostname_port": "%s must be host:port",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"dive":  "%s contains an invalid entry",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError, path string) string {
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, path)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, path, param)
	}
	return translateMinMax(fe, path, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String
	isList := fe.Kind() == reflect.Slice

	switch tag {
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		case isList:
			return fmt.Sprintf("%s must have at least %s entries", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		case isList:
			return fmt.Sprintf("%s must have at most %s entries", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
