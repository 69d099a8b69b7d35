package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes shared by the API layer and the client SDK.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: resource + " not found",
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewAuthenticationRequiredError() *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: "Authentication required",
	}
}

func NewForbiddenError() *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: "Forbidden",
	}
}

// NewInternalError wraps an unexpected failure. The wrapped error is only ever logged.
func NewInternalError(err error) *AppError {
	return NewStoreError("Internal server error", err)
}

// NewStoreError wraps a backing store failure behind a fixed public message.
func NewStoreError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// StatusFor maps err onto an HTTP status. Anything that is not an AppError is a 500.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// RespondWithError writes the standard error body. Only the AppError message is
// exposed; wrapped causes and foreign errors never reach the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	message := "Internal server error"
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	return c.Status(status).JSON(ErrorResponse{Error: message})
}
