// Package apperr defines the error kinds returned by services and the HTTP
// status each kind maps to at the handler boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Kind is the machine-readable class of an error, rendered as "kind" in
// error responses.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindDuplicateEmail     Kind = "DuplicateEmail"
	KindNotFound           Kind = "NotFound"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindUnauthorized       Kind = "Unauthorized"
	KindForbidden          Kind = "Forbidden"
	KindFetch              Kind = "FetchError"
	KindInternal           Kind = "Internal"
)

// Error is a classified error. Two Errors match under errors.Is when their
// kinds are equal, so wrapped sentinels and freshly built values compare alike.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
}

// Sentinels, one per kind. Wrap them with fmt.Errorf("%w: ...").
var (
	ErrValidation         = &Error{Kind: KindValidation, Msg: "validation failed"}
	ErrDuplicateEmail     = &Error{Kind: KindDuplicateEmail, Msg: "email already registered"}
	ErrNotFound           = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Msg: "invalid credentials"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Msg: "unauthorized"}
	ErrForbidden          = &Error{Kind: KindForbidden, Msg: "forbidden"}
	ErrFetch              = &Error{Kind: KindFetch, Msg: "remote fetch failed"}
)

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation builds a ValidationError carrying per-field messages.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: ErrValidation.Msg, Fields: fields}
}

// FromValidator converts validator.ValidationErrors into a ValidationError.
// Any other error is returned unchanged.
func FromValidator(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return Validation(fields)
}

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// FieldsOf returns the per-field messages of a ValidationError, if any.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicateEmail:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidCredentials:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
