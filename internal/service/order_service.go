package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/doshakada/ordering-api/internal/cart"
	"github.com/doshakada/ordering-api/internal/config"
	"github.com/doshakada/ordering-api/internal/events"
	"github.com/doshakada/ordering-api/internal/models"
	"github.com/google/uuid"
)

// MaxItemQuantity caps how many of one menu item a single order may hold,
// counted after repeated lines are merged.
const MaxItemQuantity = 99

var (
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("quantity must be between 1 and 99")
	ErrInvalidItem          = errors.New("item is not on the menu")
	ErrInvalidPaymentMethod = errors.New("payment method must be UPI or Cash")
	ErrMissingCustomerName  = errors.New("customer name is required")
	ErrNoChanges            = errors.New("status or paymentStatus is required")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// OrderRepository interface for order persistence
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	Update(ctx context.Context, id string, fn func(order *models.Order) error) (*models.Order, error)
}

// OrderService handles order business logic
type OrderService struct {
	menuRepo  MenuRepository
	orderRepo OrderRepository
	publisher events.Publisher
	payment   config.PaymentConfig
	log       *slog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service. publisher may be nil.
func NewOrderService(menuRepo MenuRepository, orderRepo OrderRepository, publisher events.Publisher, payment config.PaymentConfig, log *slog.Logger) *OrderService {
	return &OrderService{
		menuRepo:  menuRepo,
		orderRepo: orderRepo,
		publisher: publisher,
		payment:   payment,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder validates the checkout, prices it from the menu and stores it
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	customer := models.Customer{
		Name:  strings.TrimSpace(req.Customer.Name),
		Phone: strings.TrimSpace(req.Customer.Phone),
	}
	if customer.Name == "" {
		return nil, ErrMissingCustomerName
	}

	menuItems, err := s.menuRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	byID := make(map[models.ItemID]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.ID] = item
	}

	var c cart.Cart
	for _, line := range req.Items {
		if line.Qty <= 0 || line.Qty > MaxItemQuantity {
			return nil, ErrInvalidQuantity
		}
		item, ok := byID[line.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidItem, line.ID)
		}
		if c.Qty(item.ID)+line.Qty > MaxItemQuantity {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, line.ID)
		}
		c.Add(item, line.Qty)
	}

	total := c.Total()
	if req.Total != 0 && math.Abs(req.Total-total) >= 0.01 {
		s.log.Warn("client total does not match menu prices",
			"client_total", req.Total,
			"server_total", total,
		)
	}

	now := s.now()
	order := &models.Order{
		ID:            uuid.New().String(),
		Items:         c.Lines(),
		Total:         total,
		PaymentMethod: method,
		PaymentStatus: models.PaymentStatusPending,
		Customer:      customer,
		DeviceHash:    strings.TrimSpace(req.DeviceHash),
		Status:        models.OrderStatusReceived,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.PaymentLink = PaymentLink(s.payment, order)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// GetOrder returns a single order
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// ListOrders returns orders newest first
func (s *OrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, st)
		}
	}
	return s.orderRepo.List(ctx, filter)
}

// UpdateOrder moves an order along the kitchen and payment state machines.
// Repeating the current status is accepted and changes nothing.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, req models.UpdateOrderRequest) (*models.Order, error) {
	if req.Status == "" && req.PaymentStatus == "" {
		return nil, ErrNoChanges
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if req.PaymentStatus != "" && !req.PaymentStatus.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	changed := false
	order, err := s.orderRepo.Update(ctx, id, func(o *models.Order) error {
		if req.Status != "" && req.Status != o.Status {
			if !o.Status.CanTransitionTo(req.Status) {
				return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, req.Status)
			}
			o.Status = req.Status
			changed = true
		}
		if req.PaymentStatus != "" && req.PaymentStatus != o.PaymentStatus {
			if !o.PaymentStatus.CanTransitionTo(req.PaymentStatus) {
				return fmt.Errorf("%w: payment %s to %s", ErrInvalidTransition, o.PaymentStatus, req.PaymentStatus)
			}
			o.PaymentStatus = req.PaymentStatus
			changed = true
		}
		if changed {
			o.UpdatedAt = s.now()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, events.OrderUpdated, order)
	}
	return order, nil
}

// publish notifies listeners. The order is already saved, so failures are
// only logged.
func (s *OrderService) publish(ctx context.Context, t events.Type, order *models.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(t, *order)); err != nil {
		s.log.Error("failed to publish order event",
			"event", t,
			"order_id", order.ID,
			"error", err,
		)
	}
}
