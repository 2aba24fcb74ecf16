package models

// OrderStatus tracks an order through the kitchen
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusCooking   OrderStatus = "cooking"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
)

var orderStatusNext = map[OrderStatus]OrderStatus{
	OrderStatusReceived: OrderStatusCooking,
	OrderStatusCooking:  OrderStatusReady,
	OrderStatusReady:    OrderStatusCompleted,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusCooking, OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}

// Next returns the status that follows s. Completed orders have none.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := orderStatusNext[s]
	return next, ok
}

// CanTransitionTo reports whether the kitchen may move an order from s to
// target. Only single forward steps are allowed.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

// PaymentStatus tracks whether the order has been paid for
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// paid is terminal; a failed UPI payment can be retried or settled in cash
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:  {PaymentStatusPaid, PaymentStatusPending},
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
