package core

import (
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStudentNotFound is reported when a write references a student that does not exist.
	ErrStudentNotFound = errors.New("student not found")
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

// IsValidationError reports whether err was rejected before reaching the store.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	var fErrs validator.ValidationErrors
	return errors.As(err, &vErr) || errors.As(err, &fErrs)
}

// ConnectionError means the store could not be reached.
type ConnectionError struct {
	Err error
}

func (err *ConnectionError) Error() string { return "store unreachable: " + err.Err.Error() }
func (err *ConnectionError) Unwrap() error { return err.Err }

// PersistenceError means the store rejected a statement; the unit of work was rolled back.
type PersistenceError struct {
	Err error
}

func NewPersistenceError(err error) error {
	return &PersistenceError{Err: err}
}

func (err *PersistenceError) Error() string { return err.Err.Error() }
func (err *PersistenceError) Unwrap() error { return err.Err }

func IsConnectionError(err error) bool {
	var cErr *ConnectionError
	return errors.As(err, &cErr)
}

func IsPersistenceError(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}

// ClassifyStoreError wraps a store error with msg as either a ConnectionError or a PersistenceError.
// Already classified errors are only wrapped.
func ClassifyStoreError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsConnectionError(err) || IsPersistenceError(err) {
		return errors.Wrap(err, msg)
	}
	if isConnectionErr(err) {
		return &ConnectionError{Err: errors.Wrap(err, msg)}
	}
	return &PersistenceError{Err: errors.Wrap(err, msg)}
}

func isConnectionErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
