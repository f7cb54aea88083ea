package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Kind classifies an error so callers can branch on it without inspecting
// vendor-specific error codes or strings.
type Kind string

const (
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindSchemaMissing    Kind = "SCHEMA_MISSING"
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindGatewayFailure   Kind = "GATEWAY_FAILURE"
	KindNotFound         Kind = "NOT_FOUND"
	KindInternal         Kind = "INTERNAL"
)

// Error carries a kind, a user-presentable message and the wrapped cause.
type Error struct {
	Kind     Kind
	Message  string
	Internal error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Internal
}

func newError(kind Kind, message string, internal error) *Error {
	return &Error{Kind: kind, Message: message, Internal: internal}
}

// Unauthenticated signals that no active user identity is present.
func Unauthenticated() *Error {
	return newError(KindUnauthenticated, "user not authenticated", nil)
}

// SchemaMissing signals that a backing table is absent. The presentation
// layer uses this to show database setup instructions, so it must stay
// distinguishable from generic gateway failures.
func SchemaMissing(internal error) *Error {
	return newError(KindSchemaMissing, "database tables are not set up", internal)
}

// Validation signals rejected input such as empty message content.
func Validation(message string) *Error {
	return newError(KindValidationFailed, message, nil)
}

// Gateway signals a network or backend failure from an external service.
func Gateway(internal error) *Error {
	return newError(KindGatewayFailure, "upstream service request failed", internal)
}

// NotFound signals an id that does not exist or is not owned by the caller.
func NotFound(message string) *Error {
	return newError(KindNotFound, message, nil)
}

// Internal wraps an unexpected error.
func Internal(internal error) *Error {
	return newError(KindInternal, "an unexpected error occurred", internal)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := err.(*Error); ok {
		return appErr.Kind
	}
	return KindInternal
}

func statusCode(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindSchemaMissing:
		return http.StatusServiceUnavailable
	case KindGatewayFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes a JSON error response matching the error's kind.
func HandleError(c *gin.Context, err error) {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = Internal(err)
	}

	if appErr.Kind == KindInternal || appErr.Kind == KindGatewayFailure {
		log.Error().
			Err(appErr.Internal).
			Str("url", c.Request.URL.String()).
			Msg("request failed")
	}

	c.JSON(statusCode(appErr.Kind), gin.H{
		"error": gin.H{
			"type":    appErr.Kind,
			"message": appErr.Message,
		},
	})
}
