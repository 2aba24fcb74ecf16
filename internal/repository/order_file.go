package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/doshakada/ordering-api/internal/models"
)

// FileOrderRepository keeps every order in one JSON array on disk.
// Mutations are read-modify-write under a mutex and the file is replaced
// atomically, so readers never see a half-written file.
type FileOrderRepository struct {
	path string
	mu   sync.RWMutex
}

// NewFileOrderRepository creates the data directory and an empty orders
// file if they do not exist yet.
func NewFileOrderRepository(path string) (*FileOrderRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("initialise orders file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat orders file: %w", err)
	}

	return &FileOrderRepository{path: path}, nil
}

// Ping checks that the orders file is still readable
func (r *FileOrderRepository) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, err := r.load()
	return err
}

// Create appends a new order
func (r *FileOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.ID == order.ID {
			return ErrDuplicateOrder
		}
	}

	orders = append(orders, *order)
	return r.save(orders)
}

// GetByID returns a single order
func (r *FileOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

// List returns matching orders, newest first
func (r *FileOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	orders, err := r.load()
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	matched := make([]models.Order, 0, len(orders))
	for i := range orders {
		if filter.Matches(&orders[i]) {
			matched = append(matched, orders[i])
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

// Update applies fn to the stored order and writes the file back
func (r *FileOrderRepository) Update(ctx context.Context, id string, fn func(order *models.Order) error) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrOrderNotFound
	}

	updated := orders[idx]
	updated.Items = append([]models.OrderItem(nil), orders[idx].Items...)
	if err := fn(&updated); err != nil {
		return nil, err
	}

	orders[idx] = updated
	if err := r.save(orders); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *FileOrderRepository) load() ([]models.Order, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	orders := make([]models.Order, 0)
	if len(data) == 0 {
		return orders, nil
	}
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *FileOrderRepository) save(orders []models.Order) error {
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".orders-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod orders: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write orders: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync orders: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close orders: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace orders file: %w", err)
	}
	return nil
}
