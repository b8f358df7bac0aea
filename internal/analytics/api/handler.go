package analytics_api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ticketing-api/internal/analytics"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/utils"
)

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, logger *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

// RegisterRoutes registers the analytics routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/events/{eventId}", h.GetEventAnalytics)
		r.Post("/events/batch", h.GetBatchEventAnalytics)
	})
}

// GetEventAnalytics handles GET /analytics/events/{eventId}?status=
func (h *Handler) GetEventAnalytics(w http.ResponseWriter, r *http.Request) {
	eventID, err := utils.PathID(r, "eventId")
	if err != nil {
		utils.WriteError(w, h.Logger, "ANALYTICS", err)
		return
	}

	result, err := h.Service.GetEventAnalytics(r.Context(), eventID, r.URL.Query().Get("status"))
	if err != nil {
		utils.WriteError(w, h.Logger, "ANALYTICS", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	EventIDs []int64 `json:"event_ids" validate:"required,min=1"`
	Status   string  `json:"status"`
}

// GetBatchEventAnalytics handles POST /analytics/events/batch
func (h *Handler) GetBatchEventAnalytics(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "ANALYTICS", err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteError(w, h.Logger, "ANALYTICS", err)
		return
	}

	result, err := h.Service.GetBatchEventAnalytics(r.Context(), req.EventIDs, req.Status)
	if err != nil {
		utils.WriteError(w, h.Logger, "ANALYTICS", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
