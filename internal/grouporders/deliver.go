package grouporders

import (
	"context"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"gorm.io/gorm"
)

// Deliver moves a closed order to delivered and tells every participant what
// they owe. It only reads the totals frozen at close.
func (s *service) Deliver(ctx context.Context, id uuid.UUID) (*DeliverResult, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	now := s.now().UTC()
	var order *models.GroupOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, id, true)
		if err != nil {
			return mapOrderLookupError(err)
		}
		if !loaded.Status.CanTransitionTo(enums.GroupOrderStatusDelivered) {
			return deliverConflict(loaded.Status)
		}

		moved, err := repo.TransitionStatus(ctx, loaded.ID, enums.GroupOrderStatusClosed, map[string]any{
			"status":       enums.GroupOrderStatusDelivered,
			"delivered_at": now,
		})
		if err != nil {
			return err
		}
		if !moved {
			return deliverConflict(loaded.Status)
		}
		loaded.Status = enums.GroupOrderStatusDelivered
		loaded.DeliveredAt = &now
		order = loaded
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "deliver group order")
	}

	if s.metrics != nil {
		s.metrics.IncDelivered()
	}
	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "line_count", len(order.Lines)), "group order delivered")

	return &DeliverResult{
		OrderID:       order.ID,
		Count:         len(order.Lines),
		Notifications: s.notifier.OrderDelivered(ctx, order, order.Lines),
	}, nil
}

func deliverConflict(current enums.GroupOrderStatus) error {
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "group order must be %s to deliver", enums.GroupOrderStatusClosed).
		WithDetails(map[string]any{
			"current_status":  current,
			"required_status": enums.GroupOrderStatusClosed,
		})
}
