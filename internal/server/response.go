package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const internalErrorMessage = "Internal server error occurred while processing the request"

func writeJSON(w http.ResponseWriter, status int, v any, logger *zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string, logger *zerolog.Logger) {
	writeJSON(w, status, errorBody{Error: errorTitle(status), Message: message}, logger)
}

func errorTitle(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusMethodNotAllowed:
		return "Method not allowed"
	case http.StatusRequestEntityTooLarge:
		return "Payload too large"
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return http.StatusText(status)
	}
}
