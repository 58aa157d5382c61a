// Package apperror defines the application's error taxonomy and its mapping
// to HTTP status codes, so every handler produces the same JSON error shape.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unclassified errors.
	UnknownError ErrorType = iota
	// DatabaseError originates from the database layer.
	DatabaseError
	// ConfigError is a startup configuration problem, fatal before serving.
	ConfigError
	// AuthError is an authentication failure: no, bad, or expired credentials.
	AuthError
	// ForbiddenError is an authorization failure: authenticated but lacking authority.
	ForbiddenError
	// NotFoundError is a missing resource.
	NotFoundError
	// ValidationError is a rejected request payload.
	ValidationError
	// BadRequestError is a malformed request.
	BadRequestError
	// ConflictError means the resource already exists.
	ConflictError
	// MigrationError is a schema migration failure.
	MigrationError
	// InternalError is a generic server-side failure.
	InternalError
)

// AppError carries a classified, user-presentable message and an optional
// wrapped cause. The cause never reaches API clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to an HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError of an arbitrary type.
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Err: cause}
}

// NewDatabaseError creates a DatabaseError.
func NewDatabaseError(message string, cause error) *AppError {
	return New(DatabaseError, message, cause)
}

// NewConfigError creates a ConfigError.
func NewConfigError(message string, cause error) *AppError {
	return New(ConfigError, message, cause)
}

// NewAuthError creates an AuthError (HTTP 401).
func NewAuthError(message string, cause error) *AppError {
	return New(AuthError, message, cause)
}

// NewForbiddenError creates a ForbiddenError (HTTP 403).
func NewForbiddenError(message string, cause error) *AppError {
	return New(ForbiddenError, message, cause)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, cause error) *AppError {
	return New(NotFoundError, message, cause)
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string, cause error) *AppError {
	return New(ValidationError, message, cause)
}

// NewBadRequestError creates a BadRequestError.
func NewBadRequestError(message string, cause error) *AppError {
	return New(BadRequestError, message, cause)
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string, cause error) *AppError {
	return New(ConflictError, message, cause)
}

// NewMigrationError creates a MigrationError.
func NewMigrationError(message string, cause error) *AppError {
	return New(MigrationError, message, cause)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, cause error) *AppError {
	return New(InternalError, message, cause)
}

// ErrorResponse is the JSON body sent for every failed request.
// The shape is identical across status codes; only the values differ.
type ErrorResponse struct {
	Status int    `json:"status" example:"401"`
	Error  string `json:"error" example:"invalid credentials"`
}

// ToResponse renders the error for an API client. Only the message is
// exposed, never the wrapped cause.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Status: e.StatusCode(), Error: e.Message}
}

// FromError converts err to an *AppError if one is in its chain.
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool { return isType(err, AuthError) }

// IsForbiddenError reports whether err is an authorization failure.
func IsForbiddenError(err error) bool { return isType(err, ForbiddenError) }

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool { return isType(err, NotFoundError) }

// IsConflictError reports whether err is a duplicate-resource error.
func IsConflictError(err error) bool { return isType(err, ConflictError) }

// IsValidationError reports whether err is a rejected-input error.
func IsValidationError(err error) bool { return isType(err, ValidationError) }
