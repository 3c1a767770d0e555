package grouporders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/internal/notifications"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	"github.com/sumopedidos/sumo-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the group order aggregate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.GroupOrder) error
	FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.GroupOrder, error)
	FindBySlug(ctx context.Context, slug string) (*models.GroupOrder, error)
	ListOrders(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.GroupOrder, *pagination.Cursor, error)
	FindDueOpenIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from enums.GroupOrderStatus, updates map[string]any) (bool, error)

	CreateLine(ctx context.Context, line *models.OrderLine) error
	FindLine(ctx context.Context, id uuid.UUID) (*models.OrderLine, error)
	UpdateLineAmounts(ctx context.Context, id uuid.UUID, deliveryShareGs, totalGs int64, status enums.LineStatus) error
	ResetLines(ctx context.Context, orderID uuid.UUID) error
	TransitionLineStatus(ctx context.Context, id uuid.UUID, from, to enums.LineStatus) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// MenuLookup resolves the menu items a participant may order.
type MenuLookup interface {
	ActiveItems(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error)
	OrderableItem(ctx context.Context, menuID, itemID uuid.UUID) (*models.MenuItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Menu, error)
}

// Notifier sends the best-effort participant messages. It never fails the
// caller; outcomes are returned for inspection.
type Notifier interface {
	LineConfirmation(ctx context.Context, order *models.GroupOrder, line models.OrderLine) notifications.Outcome
	OrderClosed(ctx context.Context, order *models.GroupOrder, lines []models.OrderLine) notifications.BatchResult
	OrderCancelled(ctx context.Context, order *models.GroupOrder, lines []models.OrderLine) notifications.BatchResult
	OrderDelivered(ctx context.Context, order *models.GroupOrder, lines []models.OrderLine) notifications.BatchResult
	PaymentReminder(ctx context.Context, order *models.GroupOrder, line models.OrderLine, bankOverride string) notifications.Outcome
}

type metricsRecorder interface {
	IncCloseOutcome(outcome string)
	IncDelivered()
}
