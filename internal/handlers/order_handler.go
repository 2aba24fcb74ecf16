package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/doshakada/ordering-api/internal/models"
	"github.com/doshakada/ordering-api/internal/repository"
	"github.com/doshakada/ordering-api/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxOrderBodyBytes = 1 << 20

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest

	if err := decodeJSON(w, r, maxOrderBodyBytes, &req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	// Validate and create order
	order, err := h.orderService.CreateOrder(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			WriteError(w, http.StatusBadRequest, "No items in order", h.log)
		case errors.Is(err, service.ErrInvalidQuantity):
			WriteError(w, http.StatusBadRequest, "Quantity must be between 1 and 99", h.log)
		case errors.Is(err, service.ErrInvalidItem):
			WriteError(w, http.StatusBadRequest, "Item is not on the menu", h.log)
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			WriteError(w, http.StatusBadRequest, "Payment method must be UPI or Cash", h.log)
		case errors.Is(err, service.ErrMissingCustomerName):
			WriteError(w, http.StatusBadRequest, "Customer name is required", h.log)
		default:
			h.log.Error("failed to create order", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
			return
		}
		h.log.Info("order rejected", "reason", err.Error())
		return
	}

	// Return successful response
	WriteJSON(w, http.StatusCreated, order, h.log)
	h.log.Info("order created successfully",
		"order_id", order.ID,
		"items_count", order.ItemCount(),
		"total", order.Total,
		"payment_method", order.PaymentMethod,
	)
}

// GetOrder handles GET /api/orders/{orderId}
// Lets a customer follow their order from the receipt number's full id
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
			return
		}
		h.log.Error("failed to get order", "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// ListOrders handles GET /api/orders (admin)
// Query: status=received,cooking  deviceHash=<hash>
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := parseOrderFilter(r)

	orders, err := h.orderService.ListOrders(r.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			WriteError(w, http.StatusBadRequest, "Invalid status filter", h.log)
			return
		}
		h.log.Error("failed to list orders", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// UpdateOrder handles PATCH /api/orders/{orderId} (admin)
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req models.UpdateOrderRequest
	if err := decodeJSON(w, r, maxOrderBodyBytes, &req); err != nil {
		h.log.Warn("failed to decode order update", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.UpdateOrder(r.Context(), orderID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
		case errors.Is(err, service.ErrNoChanges):
			WriteError(w, http.StatusBadRequest, "Nothing to update", h.log)
		case errors.Is(err, service.ErrInvalidStatus):
			WriteError(w, http.StatusBadRequest, "Invalid status", h.log)
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			WriteError(w, http.StatusBadRequest, "Invalid payment status", h.log)
		case errors.Is(err, service.ErrInvalidTransition):
			h.log.Info("order update rejected", "order_id", orderID, "reason", err.Error())
			WriteError(w, http.StatusConflict, err.Error(), h.log)
		default:
			h.log.Error("failed to update order", "order_id", orderID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
	h.log.Info("order updated",
		"order_id", order.ID,
		"status", order.Status,
		"payment_status", order.PaymentStatus,
	)
}

func parseOrderFilter(r *http.Request) models.OrderFilter {
	q := r.URL.Query()
	filter := models.OrderFilter{DeviceHash: strings.TrimSpace(q.Get("deviceHash"))}

	for _, raw := range q["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, models.OrderStatus(strings.ToLower(s)))
			}
		}
	}
	return filter
}
