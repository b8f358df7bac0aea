package utils

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ticketing-api/internal/models"
)

// PathID parses a positive integer URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid %s %q", name, raw)
	}
	return id, nil
}
