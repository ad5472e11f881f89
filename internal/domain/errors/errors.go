package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound             = errors.New("charge not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEncoding             = errors.New("payload encoding failed")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrProcessorUnavailable = errors.New("payment processor unavailable")
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", message, ErrNotFound)
}

func BadRequest(code, message string) *AppError {
	return NewAppError(http.StatusBadRequest, code, message, errors.New(message))
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, "INVALID_TRANSITION", message, ErrInvalidTransition)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
}

// FromDomain maps a domain sentinel to its HTTP envelope
func FromDomain(err error) *AppError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("payment not found")
	case errors.Is(err, ErrInvalidAmount):
		return NewAppError(http.StatusBadRequest, "INVALID_AMOUNT", err.Error(), err)
	case errors.Is(err, ErrEncoding):
		return NewAppError(http.StatusBadRequest, "ENCODING_ERROR", err.Error(), err)
	case errors.Is(err, ErrInvalidTransition):
		return Conflict(err.Error())
	default:
		return InternalError(err)
	}
}
