package apperr

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindLimitExceeded Kind = "limit_exceeded"
	KindValidation    Kind = "validation"
	KindConflict      Kind = "conflict"
	KindUnavailable   Kind = "unavailable"
	KindInternal      Kind = "internal"
)

// Error is the only error type services hand back to handlers. Message is
// shown to gym staff as-is.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(entity string) *Error {
	return New(KindNotFound, entity+" not found")
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Forbidden(message string, requiredRoles []string) *Error {
	e := New(KindForbidden, message)
	if len(requiredRoles) > 0 {
		e.Details = map[string]interface{}{"requiredRoles": requiredRoles}
	}
	return e
}

// LimitExceeded is returned by the plan-limit guard.
func LimitExceeded(resource string, currentUsage, limit int, planName string) *Error {
	return &Error{
		Kind: KindLimitExceeded,
		Message: fmt.Sprintf("plan %q allows %d %s, current usage is %d; upgrade the plan to add more",
			planName, limit, resource, currentUsage),
		Details: map[string]interface{}{
			"resource":     resource,
			"currentUsage": currentUsage,
			"limit":        limit,
			"planName":     planName,
		},
	}
}

// FromStorage classifies an error coming out of the persistence layer.
// Errors that are already *Error pass through untouched.
func FromStorage(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	kind := KindInternal
	var pqErr *pq.Error
	var netErr net.Error
	switch {
	case errors.As(err, &pqErr):
		switch pqErr.Code.Class() {
		case "23":
			kind = KindConflict
		case "08", "57":
			kind = KindUnavailable
		}
	case errors.Is(err, driver.ErrBadConn), errors.As(err, &netErr):
		kind = KindUnavailable
	}

	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
