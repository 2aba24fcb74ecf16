package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/doshakada/ordering-api/internal/models"
)

// MenuRepository defines the interface for menu data access
type MenuRepository interface {
	GetAll(ctx context.Context) ([]models.MenuItem, error)
}

// FileMenuRepository serves the menu from a JSON file. The file is read on
// every call so edits show up without a restart.
type FileMenuRepository struct {
	path string
}

// NewFileMenuRepository creates a menu repository backed by path
func NewFileMenuRepository(path string) *FileMenuRepository {
	return &FileMenuRepository{path: path}
}

// GetAll returns the menu in file order. A missing file is an empty menu.
func (r *FileMenuRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.MenuItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", r.path, err)
	}

	items := make([]models.MenuItem, 0)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode menu %s: %w", r.path, err)
	}
	return items, nil
}
