package api

import (
	"encoding/json"
	"net/http"

	"serwer-kont/internal/logger"
)

// apiResponse is the uniform envelope every endpoint answers with. Clients
// distinguish failures by HTTP status and message only, so the same shape is
// used for both outcomes.
type apiResponse struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{
		Success: true,
		Status:  status,
		Message: message,
		Data:    data,
	}); err != nil {
		logger.Error("failed to encode response", logger.Err(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{
		Success: false,
		Status:  status,
		Message: message,
	}); err != nil {
		logger.Error("failed to encode error response", logger.Err(err))
	}
}
