// Package errors provides the typed errors raised at the HTTP boundary,
// before a request reaches the entity manager
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// APIError is an error that knows its HTTP status and machine code
type APIError interface {
	error
	HTTPStatus() int
	Code() string
}

// BaseError is the base implementation of APIError
type BaseError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
	Details    string `json:"details,omitempty"`
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) HTTPStatus() int {
	return e.StatusCode
}

func (e *BaseError) Code() string {
	return e.ErrorCode
}

// NotFoundError represents a route resource that does not exist
type NotFoundError struct {
	BaseError
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s not found", resource),
			StatusCode: http.StatusNotFound,
			ErrorCode:  "NOT_FOUND",
		},
		Resource: resource,
	}
}

// PermissionDeniedError represents a caller without the required role
type PermissionDeniedError struct {
	BaseError
	Action   string
	Resource string
}

func NewPermissionDeniedError(action, resource string) *PermissionDeniedError {
	return &PermissionDeniedError{
		BaseError: BaseError{
			Message:    "permission denied",
			StatusCode: http.StatusForbidden,
			ErrorCode:  "PERMISSION_DENIED",
			Details:    fmt.Sprintf("%s %s", action, resource),
		},
		Action:   action,
		Resource: resource,
	}
}

// UnauthorizedError represents an authentication error
type UnauthorizedError struct {
	BaseError
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	if message == "" {
		message = "authentication required"
	}
	return &UnauthorizedError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusUnauthorized,
			ErrorCode:  "UNAUTHORIZED",
		},
	}
}

// InternalError represents an internal server error
type InternalError struct {
	BaseError
	OriginalError error
}

func NewInternalError(original error) *InternalError {
	return &InternalError{
		BaseError: BaseError{
			Message:    "internal server error",
			StatusCode: http.StatusInternalServerError,
			ErrorCode:  "INTERNAL_ERROR",
		},
		OriginalError: original,
	}
}

func (e *InternalError) Unwrap() error {
	return e.OriginalError
}

// BadRequestError represents a malformed request: bad JSON, a bad id
type BadRequestError struct {
	BaseError
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "BAD_REQUEST",
		},
	}
}

// NewInvalidIDError reports a path parameter that is not a uuid
func NewInvalidIDError(param, value string) *BadRequestError {
	e := NewBadRequestError(fmt.Sprintf("invalid %s", param))
	e.Details = value
	return e
}

// ToHTTPError converts any error to an HTTP status and body
func ToHTTPError(err error) (int, map[string]any) {
	if err == nil {
		return http.StatusOK, nil
	}

	var ae APIError
	if stderrors.As(err, &ae) {
		body := map[string]any{
			"error":   ae.Code(),
			"message": ae.Error(),
		}
		var be interface{ details() string }
		if stderrors.As(err, &be) && be.details() != "" {
			body["details"] = be.details()
		}
		return ae.HTTPStatus(), body
	}

	return http.StatusInternalServerError, map[string]any{
		"error":   "INTERNAL_ERROR",
		"message": "internal server error",
	}
}

func (e *BaseError) details() string {
	return e.Details
}
