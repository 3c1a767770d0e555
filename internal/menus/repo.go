package menus

import (
	"context"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for menus and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, menu *models.Menu) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	FindByTitle(ctx context.Context, title string) (*models.Menu, error)
	FindItem(ctx context.Context, menuID, itemID uuid.UUID) (*models.MenuItem, error)
	ListActiveItems(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a menus repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// Create inserts the menu and any items attached to it.
func (r *repositoryImpl) Create(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, name ASC")
		}).
		Where("id = ?", id).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *repositoryImpl) FindByTitle(ctx context.Context, title string) (*models.Menu, error) {
	var menu models.Menu
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// FindItem scopes the lookup to the menu so an item id from another menu is
// treated as missing.
func (r *repositoryImpl) FindItem(ctx context.Context, menuID, itemID uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND menu_id = ?", itemID, menuID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) ListActiveItems(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("menu_id = ? AND is_active = ?", menuID, true).
		Order("created_at ASC, name ASC").
		Find(&items).Error
	return items, err
}
