package purchase_api

import (
	"net/http"
	"strconv"

	"ticketing-api/internal/auth"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/purchase"
	"ticketing-api/internal/utils"
)

type Handler struct {
	PurchaseService *purchase.PurchaseService
	Logger          *logger.Logger
}

// BuyTickets handles POST /tickets/buy.
func (h *Handler) BuyTickets(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "PURCHASE", err)
		return
	}

	resp, err := h.PurchaseService.Buy(r.Context(), auth.CustomerID(r.Context()), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "PURCHASE", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) MyTickets(w http.ResponseWriter, r *http.Request) {
	views, err := h.PurchaseService.MyTickets(r.Context(), auth.CustomerID(r.Context()))
	if err != nil {
		utils.WriteError(w, h.Logger, "PURCHASE", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) MyPurchases(w http.ResponseWriter, r *http.Request) {
	views, err := h.PurchaseService.MyPurchases(r.Context(), auth.CustomerID(r.Context()))
	if err != nil {
		utils.WriteError(w, h.Logger, "PURCHASE", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views)
}

// PurchaseQR handles GET /purchases/{purchaseId}/qr and returns a PNG.
func (h *Handler) PurchaseQR(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "purchaseId")
	if err != nil {
		utils.WriteError(w, h.Logger, "PURCHASE", err)
		return
	}

	png, err := h.PurchaseService.PurchaseQR(r.Context(), auth.CustomerID(r.Context()), id)
	if err != nil {
		utils.WriteError(w, h.Logger, "PURCHASE", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
