package admin_api

import (
	"bytes"
	"net/http"

	"ticketing-api/internal/admin"
	"ticketing-api/internal/auth"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/utils"
)

type Handler struct {
	AdminService *admin.AdminService
	Logger       *logger.Logger
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	utils.WriteError(w, h.Logger, "ADMIN", err)
}

func (h *Handler) respond(w http.ResponseWriter, status int, data interface{}, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.WriteJSON(w, status, data)
}

func (h *Handler) message(w http.ResponseWriter, msg string, err error) {
	h.respond(w, http.StatusOK, map[string]string{"message": msg}, err)
}

// Events

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventCreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	event, err := h.AdminService.CreateEvent(r.Context(), auth.CustomerID(r.Context()), req)
	h.respond(w, http.StatusCreated, event, err)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.AdminService.ListEvents(r.Context(), auth.CustomerID(r.Context()))
	h.respond(w, http.StatusOK, events, err)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "eventId")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req models.EventUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	event, err := h.AdminService.UpdateEvent(r.Context(), auth.CustomerID(r.Context()), id, req)
	h.respond(w, http.StatusOK, event, err)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "eventId")
	if err != nil {
		h.fail(w, err)
		return
	}
	h.message(w, "Event deleted", h.AdminService.DeleteEvent(r.Context(), auth.CustomerID(r.Context()), id))
}

// Tickets

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req models.TicketCreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ticket, err := h.AdminService.CreateTicket(r.Context(), req)
	h.respond(w, http.StatusCreated, ticket, err)
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "ticketId")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req models.TicketUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ticket, err := h.AdminService.UpdateTicket(r.Context(), id, req)
	h.respond(w, http.StatusOK, ticket, err)
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "ticketId")
	if err != nil {
		h.fail(w, err)
		return
	}
	h.message(w, "Ticket deleted", h.AdminService.DeleteTicket(r.Context(), id))
}

// Venues

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var req models.VenueCreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	venue, err := h.AdminService.CreateVenue(r.Context(), req)
	h.respond(w, http.StatusCreated, venue, err)
}

func (h *Handler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "venueId")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req models.VenueUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	venue, err := h.AdminService.UpdateVenue(r.Context(), id, req)
	h.respond(w, http.StatusOK, venue, err)
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "venueId")
	if err != nil {
		h.fail(w, err)
		return
	}
	h.message(w, "Venue deleted", h.AdminService.DeleteVenue(r.Context(), id))
}

// Categories

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryCreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	category, err := h.AdminService.CreateCategory(r.Context(), req)
	h.respond(w, http.StatusCreated, category, err)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "categoryId")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req models.CategoryUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	category, err := h.AdminService.UpdateCategory(r.Context(), id, req)
	h.respond(w, http.StatusOK, category, err)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "categoryId")
	if err != nil {
		h.fail(w, err)
		return
	}
	h.message(w, "Category deleted", h.AdminService.DeleteCategory(r.Context(), id))
}

// Purchases

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.AdminService.ListPurchases(r.Context())
	h.respond(w, http.StatusOK, purchases, err)
}

// SetPaymentStatus handles PUT /admin/purchases/{purchaseId}/status.
func (h *Handler) SetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "purchaseId")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req models.PaymentStatusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	h.message(w, "Payment status updated", h.AdminService.SetPaymentStatus(r.Context(), id, req))
}

// ExportPurchases renders the CSV in memory first so a failed query still
// gets a JSON error.
func (h *Handler) ExportPurchases(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.AdminService.ExportPurchasesCSV(r.Context(), &buf); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="purchases.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
