package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody is the error response shape shared by every handler.
type ErrorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Detail  string            `json:"error,omitempty"`
}

// JSON writes any payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

// Error writes a failure response with a single message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Message: message})
}

// ValidationError writes a 400 with per-field messages.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, ErrorBody{Message: "validation failed", Errors: fields})
}

// Internal writes a generic 500. The underlying error detail is included
// only when the process runs in development mode.
func Internal(w http.ResponseWriter, development bool, err error) {
	body := ErrorBody{Message: "internal server error"}
	if development && err != nil {
		body.Detail = err.Error()
	}
	JSON(w, http.StatusInternalServerError, body)
}
