package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

type ErrorBody struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Error: message, Timestamp: time.Now().UTC()}
}

// WriteJSON encodes data with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
