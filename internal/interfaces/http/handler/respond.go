package handler

import (
	"encoding/json"
	"net/http"
)

// respondJSON пишет JSON-ответ с указанным статусом
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
