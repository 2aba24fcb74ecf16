package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/doshakada/ordering-api/internal/auth"
	"github.com/doshakada/ordering-api/internal/export"
	"github.com/doshakada/ordering-api/internal/service"
)

// AdminHandler serves the kitchen-only endpoints that are not plain order CRUD
type AdminHandler struct {
	orderService *service.OrderService
	sessions     *auth.Sessions
	log          *slog.Logger
	now          func() time.Time
}

func NewAdminHandler(orderService *service.OrderService, sessions *auth.Sessions, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		sessions:     sessions,
		log:          log,
		now:          time.Now,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles POST /api/admin/session
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Enabled() {
		WriteError(w, http.StatusNotFound, "Password login is not enabled", h.log)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, 4096, &req); err != nil || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Password is required", h.log)
		return
	}

	token, expiresAt, err := h.sessions.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Warn("admin login failed", "remote_addr", r.RemoteAddr)
			WriteError(w, http.StatusUnauthorized, "Invalid password", h.log)
			return
		}
		h.log.Error("failed to issue admin session", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	h.log.Info("admin session issued", "remote_addr", r.RemoteAddr, "expires_at", expiresAt)
	WriteJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt.UTC()}, h.log)
}

// ExportOrders handles GET /api/admin/orders/export
// Same filters as GET /api/orders; responds with an .xlsx workbook
func (h *AdminHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context(), parseOrderFilter(r))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			WriteError(w, http.StatusBadRequest, "Invalid status filter", h.log)
			return
		}
		h.log.Error("failed to list orders for export", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", h.now().Format("20060102-150405"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := export.WriteOrdersXLSX(w, orders); err != nil {
		h.log.Error("failed to write orders export", "error", err)
		return
	}
	h.log.Info("orders exported", "count", len(orders))
}
