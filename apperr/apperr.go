// Package apperr is the error taxonomy shared by repositories, services and
// HTTP handlers. Every error that leaves a service carries one Kind, and the
// handlers translate that Kind into a response in exactly one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidationFailed
	KindPaymentFailed
	KindPaymentVerificationFailed
	KindRemoteServiceUnavailable
	KindUnauthorized
	KindForbidden
	KindConflict
	KindInvalidTransition
)

var kindNames = map[Kind]string{
	KindInternal:                  "internal",
	KindNotFound:                  "not_found",
	KindValidationFailed:          "validation_failed",
	KindPaymentFailed:             "payment_failed",
	KindPaymentVerificationFailed: "payment_verification_failed",
	KindRemoteServiceUnavailable:  "remote_service_unavailable",
	KindUnauthorized:              "unauthorized",
	KindForbidden:                 "forbidden",
	KindConflict:                  "conflict",
	KindInvalidTransition:         "invalid_transition",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is a classified application error.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil && e.msg != "" {
		return e.msg + ": " + e.err.Error()
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind reports the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

// Message is the client-facing part of the error, without the wrapped cause.
func (e *Error) Message() string {
	if e.msg == "" && e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func New(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err stays nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: msg, err: err}
}

func NotFound(format string, args ...any) error {
	return New(KindNotFound, format, args...)
}

func Validation(format string, args ...any) error {
	return New(KindValidationFailed, format, args...)
}

func PaymentFailed(format string, args ...any) error {
	return New(KindPaymentFailed, format, args...)
}

func PaymentVerificationFailed(format string, args ...any) error {
	return New(KindPaymentVerificationFailed, format, args...)
}

func RemoteUnavailable(err error, msg string) error {
	return Wrap(KindRemoteServiceUnavailable, err, msg)
}

func Unauthorized(format string, args ...any) error {
	return New(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) error {
	return New(KindForbidden, format, args...)
}

func Conflict(format string, args ...any) error {
	return New(KindConflict, format, args...)
}

func Internal(err error, msg string) error {
	return Wrap(KindInternal, err, msg)
}

// kinded is satisfied by *Error and by domain errors that classify
// themselves, such as statemachine.TransitionError.
type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first classified error in err's chain, or
// KindInternal when nothing in the chain is classified.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a kind to the status code handlers respond with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPaymentFailed, KindPaymentVerificationFailed:
		return http.StatusPaymentRequired
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case KindRemoteServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
