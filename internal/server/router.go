package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ticketing-api/internal/admin"
	"ticketing-api/internal/admin/admin_api"
	"ticketing-api/internal/analytics"
	analytics_api "ticketing-api/internal/analytics/api"
	"ticketing-api/internal/auth"
	"ticketing-api/internal/catalog"
	"ticketing-api/internal/catalog/catalog_api"
	"ticketing-api/internal/customer"
	"ticketing-api/internal/customer/auth_api"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/purchase"
	"ticketing-api/internal/purchase/purchase_api"
	"ticketing-api/internal/utils"
)

type Deps struct {
	Logger        *logger.Logger
	Authenticator *auth.Authenticator
	Customers     *customer.CustomerService
	Catalog       *catalog.CatalogService
	Purchases     *purchase.PurchaseService
	Admin         *admin.AdminService
	Analytics     *analytics.Service
}

func NewRouter(d Deps) http.Handler {
	authHandler := &auth_api.Handler{CustomerService: d.Customers, Logger: d.Logger}
	catalogHandler := &catalog_api.Handler{CatalogService: d.Catalog, Logger: d.Logger}
	purchaseHandler := &purchase_api.Handler{PurchaseService: d.Purchases, Logger: d.Logger}
	adminHandler := &admin_api.Handler{AdminService: d.Admin, Logger: d.Logger}
	analyticsHandler := analytics_api.NewHandler(d.Analytics, d.Logger)

	authn := d.Authenticator.Middleware
	adminOnly := d.Authenticator.RequireRole(models.RoleAdmin)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// --- Public Routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/events", catalogHandler.ListEvents)
		r.Get("/events/search", catalogHandler.SearchEvents)
		r.Get("/events/filter", catalogHandler.FilterEvents)
		r.Get("/events/{eventId}", catalogHandler.GetEvent)
		r.Get("/event-tickets/{eventId}", catalogHandler.ListEventTickets)
		r.Get("/categories", catalogHandler.ListCategories)
		r.Get("/venues", catalogHandler.ListVenues)
		r.Get("/tickets", catalogHandler.ListTickets)

		// --- Authenticated Routes ---
		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)

			r.Post("/tickets/buy", purchaseHandler.BuyTickets)
			r.Get("/tickets/my", purchaseHandler.MyTickets)
			r.Get("/purchases", purchaseHandler.MyPurchases)
			r.Get("/purchases/{purchaseId}/qr", purchaseHandler.PurchaseQR)

			// --- Admin Routes ---
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Get("/auth/admin-test", authHandler.AdminTest)
				r.Get("/customers", authHandler.ListCustomers)
				r.Post("/tickets", adminHandler.CreateTicket)
				r.Get("/export/purchases", adminHandler.ExportPurchases)

				r.Route("/admin", func(r chi.Router) {
					r.Route("/events", func(r chi.Router) {
						r.Get("/", adminHandler.ListEvents)
						r.Post("/", adminHandler.CreateEvent)
						r.Put("/{eventId}", adminHandler.UpdateEvent)
						r.Delete("/{eventId}", adminHandler.DeleteEvent)
					})
					r.Route("/tickets", func(r chi.Router) {
						r.Post("/", adminHandler.CreateTicket)
						r.Put("/{ticketId}", adminHandler.UpdateTicket)
						r.Delete("/{ticketId}", adminHandler.DeleteTicket)
					})
					r.Route("/venues", func(r chi.Router) {
						r.Post("/", adminHandler.CreateVenue)
						r.Put("/{venueId}", adminHandler.UpdateVenue)
						r.Delete("/{venueId}", adminHandler.DeleteVenue)
					})
					r.Route("/categories", func(r chi.Router) {
						r.Post("/", adminHandler.CreateCategory)
						r.Put("/{categoryId}", adminHandler.UpdateCategory)
						r.Delete("/{categoryId}", adminHandler.DeleteCategory)
					})
					r.Route("/purchases", func(r chi.Router) {
						r.Get("/", adminHandler.ListPurchases)
						r.Put("/{purchaseId}/status", adminHandler.SetPaymentStatus)
					})
					analyticsHandler.RegisterRoutes(r)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, d.Logger, "API", models.NewNotFoundError("Route %s %s not found", r.Method, r.URL.Path))
	})

	return r
}
