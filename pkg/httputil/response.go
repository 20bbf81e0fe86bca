// Package httputil writes the JSON envelopes shared by every handler.
package httputil

import (
	"encoding/json"
	"log"
	"net/http"
	"tutorhub-backend/internal/models"
)

// fallbackBody is sent when a payload cannot be encoded.
const fallbackBody = `{"error":"Internal server error"}` + "\n"

// RespondJSON encodes payload before touching the response, so an encoding
// failure still produces a well-formed 500 instead of a truncated body.
func RespondJSON(w http.ResponseWriter, statusCode int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR httputil: encoding %T response: %v", payload, err)
		statusCode = http.StatusInternalServerError
		body = []byte(fallbackBody)
	} else {
		body = append(body, '\n')
	}

	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Printf("WARN httputil: writing response: %v", err)
	}
}

// RespondError writes {"error": message} with statusCode.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{Error: message})
}
