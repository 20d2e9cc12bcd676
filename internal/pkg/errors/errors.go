package errors

import (
	"fmt"
)

// Kind группирует ошибки по способу восстановления на экране
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNetwork         Kind = "network"
	KindUnauthenticated Kind = "unauthenticated"
	KindDegraded        Kind = "degraded"
	KindInternal        Kind = "internal"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Kind       Kind                   `json:"kind"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is makes errors.Is match any AppError with the same code, so copies made
// by WithMessage still compare equal to the predefined value.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, kind Kind, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Kind:       kind,
		StatusCode: statusCode,
	}
}

// WithMessage возвращает копию ошибки с другим текстом
func (e *AppError) WithMessage(message string) *AppError {
	c := *e
	c.Message = message
	return &c
}

// WithDetails возвращает копию ошибки с деталями
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	c := *e
	c.Details = details
	return &c
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err or fallback when err is
// not an AppError or carries no message.
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
