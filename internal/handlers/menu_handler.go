package handlers

import (
	"log/slog"
	"net/http"

	"github.com/doshakada/ordering-api/internal/service"
)

// MenuHandler handles menu HTTP requests
type MenuHandler struct {
	service *service.MenuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// ListMenu handles GET /api/menu
// Returns the flat menu exactly as stored
func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to load menu", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, items, h.logger)
}

// GroupedMenu handles GET /api/menu/grouped
// Returns categories of dishes, each with its variants
func (h *MenuHandler) GroupedMenu(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.Grouped(r.Context())
	if err != nil {
		h.logger.Error("failed to load menu", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, grouped, h.logger)
}
