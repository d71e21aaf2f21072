package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError provides a structured error that can be rendered to API consumers.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Common errors exposed to the rest of the application.
//
// Account and activation failures collapse multiple causes into a single kind
// (anti-enumeration); task authorization failures stay fine-grained (404 vs 403).
var (
	ErrTokenRequired = &AppError{
		Code:       "TOKEN_REQUIRED",
		Message:    "Bearer token required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "Token is malformed or carries an invalid signature",
		StatusCode: http.StatusUnauthorized,
	}

	ErrTokenExpired = &AppError{
		Code:       "TOKEN_EXPIRED",
		Message:    "Token has expired",
		StatusCode: http.StatusUnauthorized,
	}

	ErrAuthFailed = &AppError{
		Code:       "AUTH_FAILED",
		Message:    "We couldn't verify you with the provided information",
		StatusCode: http.StatusUnauthorized,
	}

	ErrAccountNotActive = &AppError{
		Code:       "ACCOUNT_NOT_ACTIVE",
		Message:    "This account is not active",
		StatusCode: http.StatusPreconditionFailed,
	}

	ErrActivationFailed = &AppError{
		Code:       "ACTIVATION_FAILED",
		Message:    "Invalid activation information",
		StatusCode: http.StatusNotAcceptable,
	}

	ErrUsernameTaken = &AppError{
		Code:       "USERNAME_TAKEN",
		Message:    "Username already exists",
		StatusCode: http.StatusConflict,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User not found",
		StatusCode: http.StatusNotFound,
	}

	ErrTaskNotFound = &AppError{
		Code:       "TASK_NOT_FOUND",
		Message:    "Task not found",
		StatusCode: http.StatusNotFound,
	}

	ErrNotOwner = &AppError{
		Code:       "NOT_OWNER",
		Message:    "You don't own this task",
		StatusCode: http.StatusForbidden,
	}

	ErrTitleRequired = &AppError{
		Code:       "TITLE_REQUIRED",
		Message:    "Title is required",
		StatusCode: http.StatusBadRequest,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}

	ErrStorage = &AppError{
		Code:       "STORAGE_ERROR",
		Message:    "Storage operation failed",
		StatusCode: http.StatusInternalServerError,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap turns a persistence-layer error into a storage AppError while keeping
// the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:       ErrStorage.Code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewValidation wraps a field validation failure with a helpful message.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}
