package models

import "time"

type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodCash PaymentMethod = "Cash"
)

// Valid reports whether m is a payment method the counter accepts
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodUPI || m == PaymentMethodCash
}

// Customer is who the kitchen calls out when the order is ready
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// OrderItem is a priced line captured when the order was placed.
// Name and price are copied from the menu so later menu edits do not
// rewrite order history.
type OrderItem struct {
	ID       ItemID  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	Qty      int     `json:"qty"`
}

// Order represents a placed order
type Order struct {
	ID            string        `json:"id"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentLink   string        `json:"paymentLink,omitempty"`
	Customer      Customer      `json:"customer"`
	DeviceHash    string        `json:"deviceHash,omitempty"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ShortID is the receipt number shown to the customer
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// ItemCount returns the total quantity across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Qty
	}
	return n
}

// OrderRequestItem is a cart line sent by the client. The client echoes the
// whole menu item; only id and qty are trusted.
type OrderRequestItem struct {
	ID    ItemID  `json:"id"`
	Qty   int     `json:"qty"`
	Name  string  `json:"name,omitempty"`
	Price float64 `json:"price,omitempty"`
}

// CreateOrderRequest represents the checkout payload
type CreateOrderRequest struct {
	Items         []OrderRequestItem `json:"items"`
	Total         float64            `json:"total,omitempty"`
	PaymentMethod PaymentMethod      `json:"paymentMethod"`
	Customer      Customer           `json:"customer"`
	DeviceHash    string             `json:"deviceHash,omitempty"`
}

// UpdateOrderRequest is the kitchen's PATCH payload; empty fields are left unchanged
type UpdateOrderRequest struct {
	Status        OrderStatus   `json:"status,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
}

// OrderFilter narrows order listings
type OrderFilter struct {
	Statuses   []OrderStatus
	DeviceHash string
}

// Matches reports whether o passes the filter
func (f OrderFilter) Matches(o *Order) bool {
	if f.DeviceHash != "" && o.DeviceHash != f.DeviceHash {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if o.Status == s {
			return true
		}
	}
	return false
}
