// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord is the sentinel wrapped by every RecordError.
var ErrInvalidRecord = errors.New("invalid record")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule on one field. Field is the YAML key path
// as written in catalog and fixture files, e.g. "genres[1]".
type FieldError struct {
	Field string
	Rule  string
	Param string
	Value any
}

// Error renders the failure as a short sentence.
func (e FieldError) Error() string {
	switch e.Rule {
	case "required":
		return e.Field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field, e.Param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", e.Field, e.Param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s failed %s", e.Field, e.Rule)
	}
}

// RecordError collects every field failure of a single record.
type RecordError struct {
	Record string
	Fields []FieldError
}

func (e *RecordError) Error() string {
	if len(e.Fields) == 0 {
		return e.Record + ": validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i := range e.Fields {
		msgs[i] = e.Fields[i].Error()
	}
	return e.Record + ": " + strings.Join(msgs, "; ")
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidRecord).
func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}

// HasField reports whether the named field failed.
func (e *RecordError) HasField(field string) bool {
	for i := range e.Fields {
		if e.Fields[i].Field == field {
			return true
		}
	}
	return false
}

// GetValidator returns the shared validator. Field names in errors come from
// yaml tags so messages point at the key in the source file.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(yamlFieldName)
	})
	return validate
}

func yamlFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

// ValidateRecord checks s against its validate tags. It returns nil or a
// *RecordError named after the struct type, e.g. "MovieRecord".
func ValidateRecord(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	out := &RecordError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		if i == 0 {
			out.Record, _, _ = strings.Cut(fe.StructNamespace(), ".")
		}
		out.Fields[i] = FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		}
	}
	return out
}
