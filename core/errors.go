package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// IsValidation reports input errors, whether raised by the validator or by a service.
func IsValidation(err error) bool {
	switch errors.Cause(err).(type) {
	case *ValidationError, validator.ValidationErrors:
		return true
	}
	return false
}

// NotFoundError is returned when no row of Entity has the requested ID.
type NotFoundError struct {
	Entity string
	ID     int
}

func NewNotFoundError(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", err.Entity, err.ID)
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// IntegrityError is returned when a write would break a foreign key:
// a child referencing a missing parent, or a restricted parent deleted while children remain.
type IntegrityError struct {
	Op         string // insert | update | delete
	Entity     string
	ID         int    // 0 on insert
	Constraint string // when known
	Err        error  // driver error, if any
}

func (err IntegrityError) Error() string {
	var msg string
	switch err.Op {
	case "delete":
		msg = fmt.Sprintf("cannot delete %s %d: dependent rows exist", err.Entity, err.ID)
	case "update":
		msg = fmt.Sprintf("cannot update %s %d: referenced row does not exist", err.Entity, err.ID)
	default:
		msg = fmt.Sprintf("cannot %s %s: referenced row does not exist", err.Op, err.Entity)
	}
	if err.Constraint != "" {
		msg += " (" + err.Constraint + ")"
	}
	return msg
}

func (err IntegrityError) Unwrap() error { return err.Err }

func IsIntegrityViolation(err error) bool {
	_, ok := errors.Cause(err).(*IntegrityError)
	return ok
}

// UnavailableError is returned when the store cannot be reached.
type UnavailableError struct {
	Err error
}

func NewUnavailableError(err error) error {
	return &UnavailableError{Err: err}
}

func (err UnavailableError) Error() string {
	if err.Err == nil {
		return "store unavailable"
	}
	return "store unavailable: " + err.Err.Error()
}

func (err UnavailableError) Unwrap() error { return err.Err }

func IsUnavailable(err error) bool {
	_, ok := errors.Cause(err).(*UnavailableError)
	return ok
}
