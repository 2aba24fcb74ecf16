package events

import (
	"context"
	"errors"
	"time"

	"github.com/doshakada/ordering-api/internal/models"
	"github.com/google/uuid"
)

type Type string

const (
	OrderCreated Type = "order.created"
	OrderUpdated Type = "order.updated"
)

// Event is pushed to kitchen displays and downstream consumers whenever an
// order is placed or changes state
type Event struct {
	ID         string       `json:"id"`
	Type       Type         `json:"type"`
	Order      models.Order `json:"order"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// New stamps an event for order
func New(t Type, order models.Order) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Order:      order,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers order events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi fans an event out to every publisher. All publishers are tried;
// their errors are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
