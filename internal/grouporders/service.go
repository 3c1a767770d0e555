package grouporders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/internal/notifications"
	"github.com/sumopedidos/sumo-backend/pkg/db"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"github.com/sumopedidos/sumo-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	minSlugLength  = 3
	slugConstraint = "group_orders_slug_key"
)

// Service defines the group order lifecycle and line operations.
type Service interface {
	Create(ctx context.Context, input CreateGroupOrderInput) (*models.GroupOrder, error)
	GetBySlug(ctx context.Context, slug string) (*OrderView, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, params pagination.Params) (*OrderList, error)
	Close(ctx context.Context, id uuid.UUID) (*CloseResult, error)
	CloseDue(ctx context.Context, now time.Time) (*SweepResult, error)
	Deliver(ctx context.Context, id uuid.UUID) (*DeliverResult, error)
	SubmitLine(ctx context.Context, slug string, input SubmitLineInput) (*SubmitLineResult, error)
	MarkLinePaid(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error)
	SendPaymentReminder(ctx context.Context, lineID uuid.UUID, bankOverride string) (*notifications.Outcome, error)
}

// ServiceParams wires the service's collaborators. Metrics and Clock are optional.
type ServiceParams struct {
	Repository Repository
	Tx         txRunner
	Menus      MenuLookup
	Notifier   Notifier
	Metrics    metricsRecorder
	Logger     *logger.Logger
	Clock      func() time.Time
}

type service struct {
	repo     Repository
	tx       txRunner
	menus    MenuLookup
	notifier Notifier
	metrics  metricsRecorder
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a group order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("group orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Menus == nil {
		return nil, fmt.Errorf("menu lookup required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:     params.Repository,
		tx:       params.Tx,
		menus:    params.Menus,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      clock,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateGroupOrderInput) (*models.GroupOrder, error) {
	slug, err := normalizeSlug(input.Slug)
	if err != nil {
		return nil, err
	}
	if input.MenuID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu id required")
	}
	if input.Deadline.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deadline required")
	}
	if input.DeliveryCostGs < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery cost must be non-negative")
	}
	if input.MinTotalGs != nil && *input.MinTotalGs < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum total must be non-negative")
	}
	if input.MinItems != nil && *input.MinItems < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum items must be non-negative")
	}
	strategy := input.SplitStrategy
	if strategy == "" {
		strategy = enums.SplitStrategyEven
	}
	if !strategy.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid split strategy %q", strategy)
	}

	if _, err := s.menus.Get(ctx, input.MenuID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu not found")
		}
		return nil, err
	}

	order := &models.GroupOrder{
		Slug:            slug,
		MenuID:          input.MenuID,
		Status:          enums.GroupOrderStatusOpen,
		Deadline:        input.Deadline.UTC(),
		DeliveryCostGs:  input.DeliveryCostGs,
		MinTotalGs:      input.MinTotalGs,
		MinItems:        input.MinItems,
		SplitStrategy:   strategy,
		CompanyName:     trimmedOrNil(input.CompanyName),
		CompanyWhatsApp: trimmedOrNil(input.CompanyWhatsApp),
		BankName:        trimmedOrNil(input.BankName),
		BankHolder:      trimmedOrNil(input.BankHolder),
		BankAccount:     trimmedOrNil(input.BankAccount),
		BankDoc:         trimmedOrNil(input.BankDoc),
		BankAlias:       trimmedOrNil(input.BankAlias),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "slug %q already in use", slug)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group order")
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "slug", order.Slug), "group order created")
	return order, nil
}

// GetBySlug is the participant view: the order, the menu's active items and
// the money preview.
func (s *service) GetBySlug(ctx context.Context, slug string) (*OrderView, error) {
	order, err := s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, mapOrderLookupError(err)
	}
	items, err := s.menus.ActiveItems(ctx, order.MenuID)
	if err != nil {
		return nil, err
	}
	return &OrderView{
		Order:   order,
		Items:   items,
		Preview: ComputeDeliveryPreview(order, order.Lines),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, mapOrderLookupError(err)
	}
	return &OrderView{
		Order:   order,
		Preview: ComputeDeliveryPreview(order, order.Lines),
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	orders, next, err := s.repo.ListOrders(ctx, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list group orders")
	}

	list := &OrderList{Items: make([]OrderSummary, 0, len(orders))}
	for i := range orders {
		list.Items = append(list.Items, summarize(&orders[i]))
	}
	if next != nil {
		list.Cursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

func summarize(order *models.GroupOrder) OrderSummary {
	preview := ComputeDeliveryPreview(order, order.Lines)
	itemCount, _ := lineTotals(order.Lines)
	return OrderSummary{
		ID:             order.ID,
		Slug:           order.Slug,
		Status:         order.Status,
		Deadline:       order.Deadline,
		SplitStrategy:  order.SplitStrategy,
		DeliveryCostGs: order.DeliveryCostGs,
		SubtotalGs:     preview.SubtotalGs,
		TotalGs:        preview.TotalGs,
		ItemCount:      itemCount,
		LineCount:      len(order.Lines),
		CreatedAt:      order.CreatedAt,
	}
}

func lineTotals(lines []models.OrderLine) (itemCount int, subtotalSum int64) {
	for _, line := range lines {
		itemCount += line.Qty
		subtotalSum += line.SubtotalGs
	}
	return itemCount, subtotalSum
}

func normalizeSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if len(slug) < minSlugLength {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "slug must be at least %d characters", minSlugLength)
	}
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", pkgerrors.New(pkgerrors.CodeValidation, "slug may only contain letters, digits, '-' and '_'")
		}
	}
	return slug, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapOrderLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
}

func mapLineLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order line")
}

// asServiceError keeps typed errors and classifies anything else as a
// persistence failure.
func asServiceError(err error, message string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
