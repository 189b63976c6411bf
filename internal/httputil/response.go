package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

const maxBodyBytes = 1 << 20

// ErrInvalidJSON wraps every body decoding failure. Clients only ever see
// its message; the wrapped cause is for logs.
var ErrInvalidJSON = errors.New("Invalid JSON body")

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error       string   `json:"error"`
	Message     string   `json:"message"`
	Details     any      `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondNoContent sends an empty 204 response
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: code, Message: message}, statusCode)
}

// RespondInternalError hides the cause behind a generic message.
func RespondInternalError(w http.ResponseWriter) {
	RespondErrorWithCode(w, "Internal server error", CodeInternalError, http.StatusInternalServerError)
}

// RespondValidationError sends a 400 INVALID_BODY with flattened details.
func RespondValidationError(w http.ResponseWriter, err error) {
	RespondJSON(w, ErrorResponse{
		Error:   CodeInvalidBody,
		Message: "Request body validation failed",
		Details: Flatten(err),
	}, http.StatusBadRequest)
}

// DecodeJSON reads a single JSON document from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: body is empty", ErrInvalidJSON)
		}
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after the first document", ErrInvalidJSON)
	}
	return nil
}
