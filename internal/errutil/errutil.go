// Package errutil holds the error codes shared by the service and HTTP layers
// and helpers to log and classify them.
package errutil

import (
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

// Error codes attached with oops.Code.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeConflict       = "CONFLICT"
	CodeAuthentication = "AUTHENTICATION_FAILED"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)

// Code returns the oops code of err, or CodeInternal when err carries no
// known code.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return CodeInternal
	}
	code, _ := any(oopsErr.Code()).(string)
	switch code {
	case CodeValidation, CodeConflict, CodeAuthentication, CodeUnauthorized, CodeNotFound:
		return code
	default:
		return CodeInternal
	}
}

// Status maps an error code to an HTTP status.
func Status(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeAuthentication, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Title is the short error name sent in the "error" field of a response.
func Title(code string) string {
	switch code {
	case CodeValidation:
		return "Validation Error"
	case CodeConflict:
		return "Conflict"
	case CodeAuthentication:
		return "Authentication Failed"
	case CodeUnauthorized:
		return "Unauthorized"
	case CodeNotFound:
		return "Not Found"
	default:
		return "Internal Server Error"
	}
}

// LogError logs an error with structured context if it's an oops error.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil && code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}
