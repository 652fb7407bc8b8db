package domain

import (
	"errors"
	"sort"
	"strings"
)

// Бизнес-ошибки (маппятся на HTTP коды в transport/web/v1)
var (
	ErrValidation      = errors.New("validation_failed")   // 422
	ErrUnauth          = errors.New("unauthorized")        // 401
	ErrForbidden       = errors.New("forbidden")           // 403, онбординг не пройден
	ErrNotFound        = errors.New("not_found")           // 404
	ErrConflict        = errors.New("conflict")            // 500: slug занят даже после повтора
	ErrTooManyRequests = errors.New("too_many_requests")   // 429
	ErrPayloadTooLarge = errors.New("payload_too_large")   // 413
	ErrUnexpected      = errors.New("unexpected")          // 500
	ErrEmailTaken      = errors.New("email_already_taken") // превращается в ValidationError
)

// ValidationError: ошибки по полям, отдаются клиенту как есть.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// FieldError: короткий путь для одной ошибки.
func FieldError(field, msg string) *ValidationError {
	return NewValidationError().Add(field, msg)
}

func (e *ValidationError) Add(field, msg string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
