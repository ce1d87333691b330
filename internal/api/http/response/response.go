// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/go-chi/render"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Data writes a successful response carrying data.
func Data(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{Success: true, Data: data})
}

// Message writes a successful response with a message and optional data.
func Message(w http.ResponseWriter, r *http.Request, status int, msg string, data any) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{Success: true, Message: msg, Data: data})
}

// Error writes a failed response for err.
func Error(w http.ResponseWriter, r *http.Request, err *apiErrors.APIError) {
	render.Status(r, err.HTTPCode)
	render.JSON(w, r, Envelope{Success: false, Message: err.Message, Code: err.Code})
}
