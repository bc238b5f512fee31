package errors

import (
	"errors"
	"net/http"
)

// PublicAuthMessage is the only failure text callers ever see for a sign-in attempt.
const PublicAuthMessage = "Invalid email or password"

var (
	// ErrInvalidCredentials is the public face of every AuthError.
	ErrInvalidCredentials = errors.New(PublicAuthMessage)
	// ErrInvalidSession is returned when a session token is missing, malformed, expired or revoked.
	ErrInvalidSession = errors.New("invalid or expired session")
	// ErrUserNotFound is returned when a session points at a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// AuthKind classifies why an authentication attempt failed. It is for local diagnostics only.
type AuthKind int

const (
	KindMissingCredentials AuthKind = iota + 1
	KindUserNotFound
	KindInvalidPassword
	KindAuthenticationFailed
)

func (k AuthKind) String() string {
	switch k {
	case KindMissingCredentials:
		return "missing_credentials"
	case KindUserNotFound:
		return "user_not_found"
	case KindInvalidPassword:
		return "invalid_password"
	case KindAuthenticationFailed:
		return "authentication_failed"
	default:
		return "unknown"
	}
}

// AuthError is a failed authentication attempt. Its message is always PublicAuthMessage so that
// the kind never leaks through Error(); use Kind and Unwrap for diagnostics.
type AuthError struct {
	Kind AuthKind
	Err  error
}

// NewAuthError builds an AuthError of the given kind wrapping an optional cause.
func NewAuthError(kind AuthKind, cause error) *AuthError {
	return &AuthError{Kind: kind, Err: cause}
}

func (e *AuthError) Error() string {
	return PublicAuthMessage
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is makes every AuthError match ErrInvalidCredentials.
func (e *AuthError) Is(target error) bool {
	return target == ErrInvalidCredentials
}

// KindOf returns the AuthKind carried by err, or 0 when err is not an AuthError.
func KindOf(err error) AuthKind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return 0
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Every authentication failure collapses to the
// same 401 body regardless of kind.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, PublicAuthMessage, "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidSession):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidSession.Error(), "INVALID_SESSION")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
