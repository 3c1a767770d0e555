package menus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the menu lookups group orders depend on.
type Service interface {
	Create(ctx context.Context, input CreateMenuInput) (*models.Menu, error)
	Ensure(ctx context.Context, input CreateMenuInput) (*models.Menu, bool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	ActiveItems(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error)
	OrderableItem(ctx context.Context, menuID, itemID uuid.UUID) (*models.MenuItem, error)
}

// CreateMenuInput describes a menu and its initial items.
type CreateMenuInput struct {
	Title string
	Items []CreateItemInput
}

// CreateItemInput describes one priced dish.
type CreateItemInput struct {
	Name     string
	PriceGs  int64
	Category *string
	Inactive bool
}

type service struct {
	repo Repository
}

// NewService wires menu dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menus repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateMenuInput) (*models.Menu, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu title required")
	}

	menu := &models.Menu{Title: title}
	for i, item := range input.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "item %d name required", i)
		}
		if item.PriceGs < 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "item %q price must be non-negative", name)
		}
		menu.Items = append(menu.Items, models.MenuItem{
			Name:     name,
			PriceGs:  item.PriceGs,
			Category: item.Category,
			IsActive: !item.Inactive,
		})
	}

	if err := s.repo.Create(ctx, menu); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu")
	}
	return menu, nil
}

// Ensure returns the menu with the given title, creating it when absent. The
// boolean reports whether a new menu was stored.
func (s *service) Ensure(ctx context.Context, input CreateMenuInput) (*models.Menu, bool, error) {
	existing, err := s.repo.FindByTitle(ctx, strings.TrimSpace(input.Title))
	switch {
	case err == nil:
		menu, err := s.Get(ctx, existing.ID)
		return menu, false, err
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup menu")
	}
	menu, err := s.Create(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return menu, true, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	menu, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu")
	}
	return menu, nil
}

func (s *service) ActiveItems(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error) {
	items, err := s.repo.ListActiveItems(ctx, menuID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	return items, nil
}

// OrderableItem returns the item when it belongs to the menu and is active.
// Anything else is a validation failure on the submitted line.
func (s *service) OrderableItem(ctx context.Context, menuID, itemID uuid.UUID) (*models.MenuItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindItem(ctx, menuID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is not on this menu")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	if !item.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is not available")
	}
	return item, nil
}
