package catalog_api

import (
	"net/http"

	"ticketing-api/internal/catalog"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/utils"
)

type Handler struct {
	CatalogService *catalog.CatalogService
	Logger         *logger.Logger
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.CatalogService.ListEvents(r.Context())
	h.respond(w, events, err)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "eventId")
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	event, err := h.CatalogService.GetEvent(r.Context(), id)
	h.respond(w, event, err)
}

func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.CatalogService.SearchEvents(r.Context(), r.URL.Query().Get("q"))
	h.respond(w, events, err)
}

// FilterEvents handles GET /events/filter?q=&location=&date=.
func (h *Handler) FilterEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	listings, err := h.CatalogService.FilterEvents(r.Context(), catalog.FilterParams{
		Query:    query.Get("q"),
		Location: query.Get("location"),
		Date:     catalog.DateBucket(query.Get("date")),
	})
	h.respond(w, listings, err)
}

func (h *Handler) ListEventTickets(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "eventId")
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	tickets, err := h.CatalogService.ListEventTickets(r.Context(), id)
	h.respond(w, tickets, err)
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.CatalogService.ListTickets(r.Context())
	h.respond(w, tickets, err)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CatalogService.ListCategories(r.Context())
	h.respond(w, categories, err)
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.CatalogService.ListVenues(r.Context())
	h.respond(w, venues, err)
}

func (h *Handler) respond(w http.ResponseWriter, data interface{}, err error) {
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, data)
}
