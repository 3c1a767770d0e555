package grouporders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/pkg/db"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	"github.com/sumopedidos/sumo-backend/pkg/pagination"
	"gorm.io/gorm"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a group orders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// orderedLines keeps the line collection in submission order. Allocation
// zips shares back by index, so every read must agree on this order.
func orderedLines(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at ASC, id ASC")
}

func (r *repositoryImpl) CreateOrder(ctx context.Context, order *models.GroupOrder) error {
	return r.db.WithContext(ctx).Omit("Lines").Create(order).Error
}

// FindByID loads the order with its lines. With forUpdate the order row is
// locked until the surrounding transaction ends.
func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.GroupOrder, error) {
	query := r.db.WithContext(ctx)
	if forUpdate {
		query = db.ForUpdate(query)
	}
	var order models.GroupOrder
	err := query.
		Preload("Lines", orderedLines).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repositoryImpl) FindBySlug(ctx context.Context, slug string) (*models.GroupOrder, error) {
	var order models.GroupOrder
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("slug = ?", slug).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repositoryImpl) ListOrders(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.GroupOrder, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.GroupOrder{}).Preload("Lines", orderedLines)
	var orders []models.GroupOrder
	if err := pagination.Keyset(query, cursor).Limit(pagination.LimitWithBuffer(limit)).Find(&orders).Error; err != nil {
		return nil, nil, err
	}
	page, next := pagination.Cut(orders, limit, func(o models.GroupOrder) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return page, next, nil
}

func (r *repositoryImpl) FindDueOpenIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Where("status = ? AND deadline <= ?", enums.GroupOrderStatusOpen, now).
		Order("deadline ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// TransitionStatus applies updates only while the order is still in from. It
// reports false when another writer moved the order first.
func (r *repositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from enums.GroupOrderStatus, updates map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CreateLine(ctx context.Context, line *models.OrderLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repositoryImpl) FindLine(ctx context.Context, id uuid.UUID) (*models.OrderLine, error) {
	var line models.OrderLine
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repositoryImpl) UpdateLineAmounts(ctx context.Context, id uuid.UUID, deliveryShareGs, totalGs int64, status enums.LineStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"delivery_share_gs": deliveryShareGs,
			"total_gs":          totalGs,
			"status":            status,
		}).Error
}

// ResetLines zeroes every line's charges and returns it to pending.
func (r *repositoryImpl) ResetLines(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("group_order_id = ?", orderID).
		Updates(map[string]any{
			"delivery_share_gs": 0,
			"total_gs":          0,
			"status":            enums.LineStatusPending,
		}).Error
}

func (r *repositoryImpl) TransitionLineStatus(ctx context.Context, id uuid.UUID, from, to enums.LineStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
