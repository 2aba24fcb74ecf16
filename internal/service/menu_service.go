package service

import (
	"context"

	"github.com/doshakada/ordering-api/internal/menu"
	"github.com/doshakada/ordering-api/internal/models"
)

// MenuRepository interface for menu data access
type MenuRepository interface {
	GetAll(ctx context.Context) ([]models.MenuItem, error)
}

// MenuService handles business logic for the menu
type MenuService struct {
	repo MenuRepository
}

// NewMenuService creates a new menu service
func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// List returns the menu in file order
func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.repo.GetAll(ctx)
}

// Grouped returns the menu as categories of dishes with their variants
func (s *MenuService) Grouped(ctx context.Context) ([]menu.GroupedCategory, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return menu.Group(items), nil
}
