package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doshakada/ordering-api/internal/auth"
	"github.com/doshakada/ordering-api/internal/config"
	"github.com/doshakada/ordering-api/internal/events"
	"github.com/doshakada/ordering-api/internal/export"
	"github.com/doshakada/ordering-api/internal/handlers"
	"github.com/doshakada/ordering-api/internal/models"
	"github.com/doshakada/ordering-api/internal/repository"
	"github.com/doshakada/ordering-api/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAPIKey    = "kitchen-key"
	testJWTSecret = "router-test-secret-0123456789abcdef"
)

const testMenu = `[
	{"id": "1", "name": "Masala Dosa", "price": 60, "category": "Dosa"},
	{"id": "2", "name": "Ghee Roast (Half)", "price": 50, "category": "Dosa"},
	{"id": "3", "name": "Ghee Roast (Full)", "price": 90, "category": "Dosa"},
	{"id": "4", "name": "Filter Coffee", "price": 20, "category": "Drinks"}
]`

func newTestServer(t *testing.T) (*httptest.Server, *events.Hub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("dosa123"), bcrypt.MinCost)
	require.NoError(t, err)
	return newTestServerWithLogin(t, string(hash))
}

// newTestServerWithLogin builds the full router; an empty passwordHash
// turns password login off.
func newTestServerWithLogin(t *testing.T, passwordHash string) (*httptest.Server, *events.Hub) {
	t.Helper()
	dir := t.TempDir()
	menuPath := filepath.Join(dir, "menu.json")
	require.NoError(t, os.WriteFile(menuPath, []byte(testMenu), 0o644))

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", AllowedOrigins: []string{"*"}},
		Auth: config.AuthConfig{
			APIKeys:           []string{testAPIKey},
			AdminPasswordHash: passwordHash,
			JWTSecret:         testJWTSecret,
			SessionTTLMinutes: 60,
		},
		Storage:  config.StorageConfig{Driver: config.StorageFile, MenuFile: menuPath, OrdersFile: filepath.Join(dir, "orders.json")},
		LogLevel: "info",
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	menuRepo := repository.NewFileMenuRepository(cfg.Storage.MenuFile)
	orderRepo, err := repository.NewFileOrderRepository(cfg.Storage.OrdersFile)
	require.NoError(t, err)

	hub := events.NewHub(log, nil)
	sessions := auth.NewSessions(cfg.Auth.AdminPasswordHash, cfg.Auth.JWTSecret, time.Hour)
	orderService := service.NewOrderService(menuRepo, orderRepo, hub, cfg.Payment, log)

	router := NewRouter(Deps{
		Config:    cfg,
		Log:       log,
		Health:    handlers.NewHealthHandler(log, map[string]handlers.HealthCheck{"orders": orderRepo.Ping}),
		Menu:      handlers.NewMenuHandler(service.NewMenuService(menuRepo), log),
		Orders:    handlers.NewOrderHandler(orderService, log),
		Admin:     handlers.NewAdminHandler(orderService, sessions, log),
		Sessions:  sessions,
		OrderFeed: hub,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, hub
}

func request(t *testing.T, srv *httptest.Server, method, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func kitchen() map[string]string {
	return map[string]string{"api_key": testAPIKey}
}

func TestRouter_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := request(t, srv, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Menu(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := request(t, srv, http.MethodGet, "/api/menu", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []models.MenuItem
	decode(t, resp, &items)
	assert.Len(t, items, 4)

	resp = request(t, srv, http.MethodGet, "/api/menu/grouped", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var grouped []struct {
		Category string `json:"category"`
		Dishes   []struct {
			Name     string `json:"name"`
			Variants []struct {
				Label string `json:"label"`
			} `json:"variants"`
		} `json:"dishes"`
	}
	decode(t, resp, &grouped)
	require.Len(t, grouped, 2)
	assert.Equal(t, "Dosa", grouped[0].Category)
	require.Len(t, grouped[0].Dishes, 2)
	assert.Equal(t, "Ghee Roast", grouped[0].Dishes[1].Name)
	assert.Len(t, grouped[0].Dishes[1].Variants, 2)
}

func TestRouter_OrderLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := request(t, srv, http.MethodPost, "/api/orders", models.CreateOrderRequest{
		Items:      []models.OrderRequestItem{{ID: "3", Qty: 1}, {ID: "4", Qty: 2}},
		Customer:   models.Customer{Name: "Meera", Phone: "9800000000"},
		DeviceHash: "device-a",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decode(t, resp, &order)
	assert.Equal(t, 130.0, order.Total)
	assert.Equal(t, models.PaymentMethodCash, order.PaymentMethod)

	// Customers can poll their own order without credentials
	resp = request(t, srv, http.MethodGet, "/api/orders/"+order.ID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, srv, http.MethodGet, "/api/orders", nil, kitchen())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decode(t, resp, &orders)
	require.Len(t, orders, 1)

	for _, status := range []string{"cooking", "ready", "completed"} {
		resp = request(t, srv, http.MethodPatch, "/api/orders/"+order.ID, map[string]string{"status": status}, kitchen())
		require.Equal(t, http.StatusOK, resp.StatusCode, status)
	}

	resp = request(t, srv, http.MethodPatch, "/api/orders/"+order.ID, map[string]string{"status": "cooking"}, kitchen())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = request(t, srv, http.MethodGet, "/api/orders?status=completed", nil, kitchen())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders = nil
	decode(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusCompleted, orders[0].Status)
}

func TestRouter_AdminAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name           string
		method         string
		path           string
		headers        map[string]string
		expectedStatus int
	}{
		{name: "list without credentials", method: http.MethodGet, path: "/api/orders", expectedStatus: http.StatusUnauthorized},
		{name: "list with wrong key", method: http.MethodGet, path: "/api/orders", headers: map[string]string{"api_key": "nope"}, expectedStatus: http.StatusForbidden},
		{name: "list with bad token", method: http.MethodGet, path: "/api/orders", headers: map[string]string{"Authorization": "Bearer abc"}, expectedStatus: http.StatusForbidden},
		{name: "patch without credentials", method: http.MethodPatch, path: "/api/orders/x", expectedStatus: http.StatusUnauthorized},
		{name: "export without credentials", method: http.MethodGet, path: "/api/admin/orders/export", expectedStatus: http.StatusUnauthorized},
		{name: "websocket without credentials", method: http.MethodGet, path: "/api/admin/orders/ws", expectedStatus: http.StatusUnauthorized},
		{name: "menu is public", method: http.MethodGet, path: "/api/menu", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := request(t, srv, tt.method, tt.path, nil, tt.headers)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestRouter_LoginAndExport(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := request(t, srv, http.MethodPost, "/api/orders", models.CreateOrderRequest{
		Items:    []models.OrderRequestItem{{ID: "1", Qty: 1}},
		Customer: models.Customer{Name: "Meera"},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, srv, http.MethodPost, "/api/admin/session", map[string]string{"password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, srv, http.MethodPost, "/api/admin/session", map[string]string{"password": "dosa123"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session struct {
		Token string `json:"token"`
	}
	decode(t, resp, &session)
	require.NotEmpty(t, session.Token)

	resp = request(t, srv, http.MethodGet, "/api/admin/orders/export", nil, map[string]string{"Authorization": "Bearer " + session.Token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), "attachment;"))
}

func TestRouter_OrderFeed(t *testing.T) {
	srv, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/orders/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"api_key": []string{testAPIKey}})
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp := request(t, srv, http.MethodPost, "/api/orders", models.CreateOrderRequest{
		Items:    []models.OrderRequestItem{{ID: "2", Qty: 1}},
		Customer: models.Customer{Name: "Meera"},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event events.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, events.OrderCreated, event.Type)
	assert.Equal(t, "Meera", event.Order.Customer.Name)
}

func TestRouter_SessionTokensRefusedWithoutPasswordLogin(t *testing.T) {
	srv, _ := newTestServerWithLogin(t, "")

	minted, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	resp := request(t, srv, http.MethodGet, "/api/orders", nil, map[string]string{"Authorization": "Bearer " + minted})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = request(t, srv, http.MethodGet, "/api/orders?token="+minted, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = request(t, srv, http.MethodPost, "/api/admin/session", map[string]string{"password": "dosa123"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = request(t, srv, http.MethodGet, "/api/orders", nil, kitchen())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
