package auth_api

import (
	"fmt"
	"net/http"

	"ticketing-api/internal/auth"
	"ticketing-api/internal/customer"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/utils"
)

type Handler struct {
	CustomerService *customer.CustomerService
	Logger          *logger.Logger
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "AUTH", err)
		return
	}

	c, err := h.CustomerService.Register(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "AUTH", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "User registered",
		"customer_id": c.CustomerID,
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "AUTH", err)
		return
	}

	token, err := h.CustomerService.Login(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "AUTH", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFrom(r.Context())
	utils.WriteJSON(w, http.StatusOK, models.MeResponse{
		CustomerID: auth.CustomerID(r.Context()),
		Role:       claims.Role,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFrom(r.Context())
	if err := h.CustomerService.Logout(r.Context(), claims); err != nil {
		utils.WriteError(w, h.Logger, "AUTH", err)
		return
	}
	h.Logger.Info("AUTH", fmt.Sprintf("Customer %s logged out", claims.Subject))
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handler) AdminTest(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "You are an admin"})
}

// ListCustomers handles GET /customers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.CustomerService.ListCustomers(r.Context())
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, customers)
}
