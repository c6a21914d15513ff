package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is a domain failure carrying the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// FromValidation turns a validator error into a 400 with a readable message.
func FromValidation(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		if verrs[0].Tag() == "required" {
			return BadRequest(field + " is required")
		}
		return BadRequest(field + " is invalid")
	}
	return BadRequest("invalid request")
}

// FailureResponse is the uniform error body.
type FailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandlerFunc is an HTTP handler that reports failure as a return value
// instead of writing it inline.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Handle adapts a HandlerFunc, translating any returned error into the
// uniform failure body. Errors without a declared status become a 500 with
// a generic message.
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		var appErr *Error
		if !errors.As(err, &appErr) {
			appErr = Internal("internal server error", err)
		}
		if appErr.Status >= http.StatusInternalServerError {
			slog.Error("request failed",
				"method", r.Method, "path", r.URL.Path, "error", err)
		}
		JSON(w, appErr.Status, FailureResponse{Success: false, Message: appErr.Message})
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
