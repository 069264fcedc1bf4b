// Package httpx provides JSON response utilities shared by all handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MessageResponse is the envelope for non-entity responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// FieldError describes a single request-body validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse carries field-level detail for 400 responses.
type ValidationResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends a {"message": ...} response.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageResponse{Message: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// ValidationFailed sends a 400 with per-field errors extracted from the
// validator error.
func ValidationFailed(w http.ResponseWriter, err error) {
	resp := ValidationResponse{Message: "Validation failed."}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Errors = append(resp.Errors, FieldError{
				Field:   fe.Field(),
				Message: fe.Tag(),
			})
		}
	}
	JSON(w, http.StatusBadRequest, resp)
}
