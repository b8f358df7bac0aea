package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now(),
	}
}

// WriteJSON encodes data with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// StatusFor maps an error category to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientInventory):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// WriteError renders err in the error envelope. Internal failures are logged
// in full and reported to the client without detail.
func WriteError(w http.ResponseWriter, log *logger.Logger, category string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error(category, errors.FlattenDetails(err))
		}
		WriteJSON(w, status, ErrorResponse(http.StatusText(status), "internal server error"))
		return
	}
	if log != nil {
		log.Warn(category, err.Error())
	}
	WriteJSON(w, status, ErrorResponse(http.StatusText(status), err.Error()))
}

// DecodeJSON reads the request body into dst. Unknown fields are ignored.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return models.NewValidationError("Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewValidationError("Invalid request body: %v", err)
	}
	return nil
}
