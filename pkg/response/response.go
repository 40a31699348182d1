// Package response writes the JSON shapes the API exposes: plain payloads,
// {"message": ...}, {"error": ...} and {"errors": [{field, message}, ...]}.
package response

import (
	"encoding/json"
	"net/http"
)

// FieldError is one itemized validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes v as-is with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Err writes {"error": msg}. Internal details never reach the client;
// callers log them and pass a stable user-facing message here.
func Err(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// ValidationErrors writes a 400 with the full list of field violations.
func ValidationErrors(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}
