package server_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing-api/internal/admin"
	admindb "ticketing-api/internal/admin/db"
	"ticketing-api/internal/analytics"
	"ticketing-api/internal/auth"
	"ticketing-api/internal/catalog"
	catalogdb "ticketing-api/internal/catalog/db"
	"ticketing-api/internal/customer"
	customerdb "ticketing-api/internal/customer/db"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/purchase"
	purchasedb "ticketing-api/internal/purchase/db"
	"ticketing-api/internal/purchase/qr"
	"ticketing-api/internal/server"
	"ticketing-api/internal/testutil"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-pass"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	bunDB := testutil.NewDB(t)
	log := logger.Discard()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	revoker := auth.NewRedisRevoker(rdb)

	issuer := auth.NewIssuer("test-secret", 15*time.Minute)
	customers := customer.NewCustomerService(&customerdb.DB{Bun: bunDB}, issuer, revoker, log)
	require.NoError(t, customers.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	handler := server.NewRouter(server.Deps{
		Logger:        log,
		Authenticator: auth.NewAuthenticator(issuer, revoker, log),
		Customers:     customers,
		Catalog:       catalog.NewCatalogService(&catalogdb.DB{Bun: bunDB}),
		Purchases:     purchase.NewPurchaseService(&purchasedb.DB{Bun: bunDB}, nil, qr.NewQRGenerator("test-secret"), log),
		Admin:         admin.NewAdminService(&admindb.DB{Bun: bunDB}, log),
		Analytics:     analytics.NewService(&analytics.DB{Bun: bunDB}),
	})
	return &testServer{t: t, handler: handler}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) decode(rec *httptest.ResponseRecorder, dst interface{}) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	s.decode(rec, &resp)
	return resp.Token
}

func (s *testServer) registerAndLogin(email string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret", "first_name": "Ada", "last_name": "Lovelace",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return s.login(email, "secret")
}

func (s *testServer) create(token, path string, body interface{}, idField string) int64 {
	s.t.Helper()
	rec := s.do(http.MethodPost, path, token, body)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out map[string]interface{}
	s.decode(rec, &out)
	return int64(out[idField].(float64))
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"email": "alice@example.com", "password": "secret"}

	rec := s.do(http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	wrongPassword := rec.Body.String()

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, wrongPassword, "Invalid credentials")
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	token := s.login("alice@example.com", "secret")
	rec = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		CustomerID int64  `json:"customer_id"`
		Role       string `json:"role"`
	}
	s.decode(rec, &me)
	assert.NotZero(t, me.CustomerID)
	assert.Equal(t, "user", me.Role)
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)
	userToken := s.registerAndLogin("user@example.com")
	adminToken := s.login(adminEmail, adminPassword)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "garbage", nil).Code)

	for _, path := range []string{"/api/auth/admin-test", "/api/customers", "/api/admin/events", "/api/admin/purchases", "/api/export/purchases"} {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, adminToken, nil).Code, path)
	}

	adminRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/admin-test"},
		{http.MethodGet, "/api/customers"},
		{http.MethodPost, "/api/tickets"},
		{http.MethodGet, "/api/export/purchases"},
		{http.MethodGet, "/api/admin/events"},
		{http.MethodPost, "/api/admin/events"},
		{http.MethodPut, "/api/admin/events/1"},
		{http.MethodDelete, "/api/admin/events/1"},
		{http.MethodPost, "/api/admin/tickets"},
		{http.MethodPut, "/api/admin/tickets/1"},
		{http.MethodDelete, "/api/admin/tickets/1"},
		{http.MethodPost, "/api/admin/venues"},
		{http.MethodPut, "/api/admin/venues/1"},
		{http.MethodDelete, "/api/admin/venues/1"},
		{http.MethodPost, "/api/admin/categories"},
		{http.MethodPut, "/api/admin/categories/1"},
		{http.MethodDelete, "/api/admin/categories/1"},
		{http.MethodGet, "/api/admin/purchases"},
		{http.MethodPut, "/api/admin/purchases/1/status"},
		{http.MethodGet, "/api/admin/analytics/events/1"},
		{http.MethodPost, "/api/admin/analytics/events/batch"},
	}
	for _, route := range adminRoutes {
		name := route.method + " " + route.path
		body := map[string]interface{}{}
		assert.Equal(t, http.StatusForbidden, s.do(route.method, route.path, userToken, body).Code, name)
		assert.Equal(t, http.StatusUnauthorized, s.do(route.method, route.path, "", body).Code, name)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin("leaver@example.com")

	rec := s.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestPurchaseFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(adminEmail, adminPassword)
	userToken := s.registerAndLogin("buyer@example.com")

	categoryID := s.create(adminToken, "/api/admin/categories", map[string]string{"category_name": "Music"}, "category_id")
	venueID := s.create(adminToken, "/api/admin/venues", map[string]interface{}{
		"venue_name": "Arena", "address": "1 Main St", "city": "Springfield", "capacity": 1000,
	}, "venue_id")
	eventID := s.create(adminToken, "/api/admin/events", map[string]interface{}{
		"event_name":    "Summer Fest",
		"event_date":    time.Now().Add(72 * time.Hour).UTC().Format("2006-01-02 15:04:05"),
		"category_id":   categoryID,
		"venue_id":      venueID,
		"total_tickets": 100,
	}, "event_id")
	ticketID := s.create(adminToken, "/api/tickets", map[string]interface{}{
		"event_id": eventID, "ticket_type": "General", "price": 25.5, "quantity_available": 3,
	}, "ticket_id")

	rec := s.do(http.MethodGet, fmt.Sprintf("/api/event-tickets/%d", eventID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ticket_type":"General"`)

	buy := func(qty int) *httptest.ResponseRecorder {
		return s.do(http.MethodPost, "/api/tickets/buy", userToken, map[string]interface{}{
			"tickets": []map[string]interface{}{{"ticket_id": ticketID, "quantity": qty}},
		})
	}

	rec = buy(2)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var bought struct {
		Message    string  `json:"message"`
		PurchaseID int64   `json:"purchase_id"`
		Total      float64 `json:"total"`
	}
	s.decode(rec, &bought)
	assert.Equal(t, "Purchase successful", bought.Message)
	assert.Equal(t, 51.0, bought.Total)

	rec = buy(2)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf("Not enough tickets for Ticket ID %d", ticketID))

	rec = s.do(http.MethodPost, "/api/tickets/buy", userToken, map[string]interface{}{
		"tickets": []map[string]interface{}{{"ticket_id": 9999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/tickets/my", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"event":"Summer Fest"`)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/purchases/%d/qr", bought.PurchaseID), userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	otherToken := s.registerAndLogin("other@example.com")
	rec = s.do(http.MethodGet, fmt.Sprintf("/api/purchases/%d/qr", bought.PurchaseID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/admin/events/%d", eventID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/events", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"organizer_email":"admin@example.com"`)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/admin/analytics/events/%d", eventID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_tickets_sold":2`)

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/admin/purchases/%d/status", bought.PurchaseID), adminToken,
		map[string]string{"payment_status": "Refunded"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/export/purchases", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Refunded", rows[1][10])
}

func TestUnknownRouteAndHealth(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/nope", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/events/abc", "", nil).Code)
}
