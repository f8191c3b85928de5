package httpx

import (
	"encoding/json"
	"net/http"
)

// DetailResponse is the error/notice envelope used across the API:
// a single machine-readable detail code or human-readable message.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes a {"detail": ...} body with the given status code.
func WriteDetail(w http.ResponseWriter, code int, detail string) {
	WriteJSON(w, code, DetailResponse{Detail: detail})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses that carry credentials.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
