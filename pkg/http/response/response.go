package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/tata-ai/tata/pkg/errors"
)

// ErrorResponse is the uniform failure body
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Type    string                 `json:"type"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Handler is a custom type for http handlers that can return errors
type Handler func(w http.ResponseWriter, r *http.Request) error

// Middleware converts our custom handler to standard http.HandlerFunc
func Middleware(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err != nil {
			WriteError(w, err)
			return
		}
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// StatusCode maps error types to HTTP status codes
func StatusCode(t errors.ErrorType) int {
	switch t {
	case errors.InvalidArgumentError, errors.MissingFieldsError:
		return http.StatusBadRequest
	case errors.ParseError:
		return http.StatusUnprocessableEntity
	case errors.NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes an error response
func WriteError(w http.ResponseWriter, err error) {
	var body ErrorResponse
	var statusCode int

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		body = ErrorResponse{
			Error:   appErr.Message,
			Type:    string(appErr.Type),
			Details: appErr.Details,
		}
		statusCode = StatusCode(appErr.Type)
	} else {
		body = ErrorResponse{
			Error: "An unexpected error occurred",
			Type:  string(errors.InternalError),
		}
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
