package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind classifies failures returned by the apiary operations
type ErrorKind string

const (
	KindNotFound           ErrorKind = "not_found"
	KindValidation         ErrorKind = "validation"
	KindPreconditionFailed ErrorKind = "precondition_failed"
	KindDataIntegrity      ErrorKind = "data_integrity"
	KindForbidden          ErrorKind = "forbidden"
)

// ServiceError is the structured result of a rejected operation
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches any ServiceError of the same kind, so errors.Is(err, ErrNotFound) works
func (e *ServiceError) Is(target error) bool {
	var other *ServiceError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// Sentinels for errors.Is checks
var (
	ErrNotFound           = &ServiceError{Kind: KindNotFound, Message: "record not available"}
	ErrValidation         = &ServiceError{Kind: KindValidation, Message: "invalid input"}
	ErrPreconditionFailed = &ServiceError{Kind: KindPreconditionFailed, Message: "precondition failed"}
	ErrDataIntegrity      = &ServiceError{Kind: KindDataIntegrity, Message: "data integrity violation"}
	ErrForbidden          = &ServiceError{Kind: KindForbidden, Message: "access denied"}
)

// ErrNumberingExhausted is returned when every allocator attempt collided with a concurrent writer
var ErrNumberingExhausted = errors.New("failed to allocate a free hive number")

func notFound(message string) error {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func validation(message string) error {
	return &ServiceError{Kind: KindValidation, Message: message}
}

func preconditionFailed(message string) error {
	return &ServiceError{Kind: KindPreconditionFailed, Message: message}
}

func dataIntegrity(message string) error {
	return &ServiceError{Kind: KindDataIntegrity, Message: message}
}

func forbidden(message string) error {
	return &ServiceError{Kind: KindForbidden, Message: message}
}

// KindOf returns the kind of a ServiceError, or "" for any other error
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// MessageOf returns the caller-facing message of a ServiceError
func MessageOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// lookupError maps a missing row to NotFound and wraps everything else
func lookupError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// isUniqueViolation reports whether err comes from a unique index
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") || strings.Contains(msg, "duplicate entry")
}
