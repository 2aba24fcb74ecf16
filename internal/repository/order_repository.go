package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/doshakada/ordering-api/internal/models"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already exists")
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	// Update loads the order, applies fn and saves the result. Returning an
	// error from fn aborts without saving.
	Update(ctx context.Context, id string, fn func(order *models.Order) error) (*models.Order, error)
}

// sortNewestFirst orders by creation time, newest first, with id as a tiebreak
func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
