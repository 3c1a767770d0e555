package grouporders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Close ends an open order. If the order's minimums are not met it is
// cancelled and every line's charges are zeroed; otherwise the delivery fee
// is split through the preview calculator and the shares are frozen on the
// lines. Both branches commit in one transaction before any message is sent.
// Closing an order that already left open returns CloseOutcomeAlreadyClosed.
func (s *service) Close(ctx context.Context, id uuid.UUID) (*CloseResult, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	now := s.now().UTC()
	var (
		result *CloseResult
		order  *models.GroupOrder
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, id, true)
		if err != nil {
			return mapOrderLookupError(err)
		}
		order = loaded

		if order.Status != enums.GroupOrderStatusOpen {
			result = alreadyClosed(order)
			return nil
		}

		itemCount, subtotalSum := lineTotals(order.Lines)
		if reason := unmetMinimums(order, subtotalSum, itemCount); reason != "" {
			moved, err := repo.TransitionStatus(ctx, order.ID, enums.GroupOrderStatusOpen, map[string]any{
				"status":        enums.GroupOrderStatusCancelled,
				"closed_at":     now,
				"cancel_reason": reason,
			})
			if err != nil {
				return err
			}
			if !moved {
				result, err = lostTransition(ctx, repo, order.ID)
				return err
			}
			if err := repo.ResetLines(ctx, order.ID); err != nil {
				return err
			}

			order.Status = enums.GroupOrderStatusCancelled
			order.ClosedAt = &now
			order.CancelReason = &reason
			for i := range order.Lines {
				order.Lines[i].DeliveryShareGs = 0
				order.Lines[i].TotalGs = 0
				order.Lines[i].Status = enums.LineStatusPending
			}
			result = &CloseResult{
				OrderID:     order.ID,
				Outcome:     CloseOutcomeCancelled,
				Status:      order.Status,
				SubtotalSum: subtotalSum,
				ItemCount:   itemCount,
				Reason:      reason,
			}
			return nil
		}

		preview := ComputeDeliveryPreview(order, order.Lines)
		moved, err := repo.TransitionStatus(ctx, order.ID, enums.GroupOrderStatusOpen, map[string]any{
			"status":        enums.GroupOrderStatusClosed,
			"closed_at":     now,
			"cancel_reason": nil,
		})
		if err != nil {
			return err
		}
		if !moved {
			result, err = lostTransition(ctx, repo, order.ID)
			return err
		}

		shares := make([]LineShare, 0, len(preview.Lines))
		for i, lp := range preview.Lines {
			if err := repo.UpdateLineAmounts(ctx, lp.Line.ID, lp.DeliveryShareGs, lp.TotalGs, enums.LineStatusAwaitingPayment); err != nil {
				return err
			}
			order.Lines[i].DeliveryShareGs = lp.DeliveryShareGs
			order.Lines[i].TotalGs = lp.TotalGs
			order.Lines[i].Status = enums.LineStatusAwaitingPayment
			shares = append(shares, LineShare{
				LineID:          lp.Line.ID,
				SubtotalGs:      lp.Line.SubtotalGs,
				DeliveryShareGs: lp.DeliveryShareGs,
				TotalGs:         lp.TotalGs,
			})
		}
		order.Status = enums.GroupOrderStatusClosed
		order.ClosedAt = &now
		order.CancelReason = nil

		result = &CloseResult{
			OrderID:     order.ID,
			Outcome:     CloseOutcomeClosed,
			Status:      order.Status,
			SubtotalSum: subtotalSum,
			ItemCount:   itemCount,
			Shares:      shares,
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "close group order")
	}

	if s.metrics != nil {
		s.metrics.IncCloseOutcome(string(result.Outcome))
	}
	logCtx := s.logg.WithOrderID(ctx, result.OrderID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"outcome":      string(result.Outcome),
		"subtotal_sum": result.SubtotalSum,
		"item_count":   result.ItemCount,
	})
	s.logg.Info(logCtx, "group order close handled")

	switch result.Outcome {
	case CloseOutcomeClosed:
		batch := s.notifier.OrderClosed(ctx, order, order.Lines)
		result.Notifications = &batch
	case CloseOutcomeCancelled:
		batch := s.notifier.OrderCancelled(ctx, order, order.Lines)
		result.Notifications = &batch
	}
	return result, nil
}

// CloseDue closes every open order whose deadline is at or before now. A
// failure on one order is collected and the sweep moves on.
func (s *service) CloseDue(ctx context.Context, now time.Time) (*SweepResult, error) {
	ids, err := s.repo.FindDueOpenIDs(ctx, now.UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find due group orders")
	}

	sweep := &SweepResult{Due: len(ids)}
	var errs error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		result, err := s.Close(ctx, id)
		if err != nil {
			sweep.Failed++
			errs = multierr.Append(errs, fmt.Errorf("close %s: %w", id, err))
			s.logg.Error(s.logg.WithOrderID(ctx, id.String()), "deadline close failed", err)
			continue
		}
		switch result.Outcome {
		case CloseOutcomeClosed:
			sweep.Closed++
		case CloseOutcomeCancelled:
			sweep.Cancelled++
		default:
			sweep.AlreadyClosed++
		}
	}
	return sweep, errs
}

func alreadyClosed(order *models.GroupOrder) *CloseResult {
	itemCount, subtotalSum := lineTotals(order.Lines)
	result := &CloseResult{
		OrderID:     order.ID,
		Outcome:     CloseOutcomeAlreadyClosed,
		Status:      order.Status,
		SubtotalSum: subtotalSum,
		ItemCount:   itemCount,
	}
	if order.CancelReason != nil {
		result.Reason = *order.CancelReason
	}
	return result
}

// lostTransition reports an order another caller moved out of open between
// the read and the guarded update. The order is read again so the result
// carries the winner's status instead of the stale open one.
func lostTransition(ctx context.Context, repo Repository, id uuid.UUID) (*CloseResult, error) {
	current, err := repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, mapOrderLookupError(err)
	}
	return alreadyClosed(current), nil
}

// unmetMinimums names each failed threshold with its required and actual
// values, or returns "" when the order may close.
func unmetMinimums(order *models.GroupOrder, subtotalSum int64, itemCount int) string {
	var parts []string
	if order.MinTotalGs != nil && subtotalSum < *order.MinTotalGs {
		parts = append(parts, fmt.Sprintf("minTotalGs=%d, subtotal=%d", *order.MinTotalGs, subtotalSum))
	}
	if order.MinItems != nil && itemCount < *order.MinItems {
		parts = append(parts, fmt.Sprintf("minItems=%d, items=%d", *order.MinItems, itemCount))
	}
	return strings.Join(parts, " | ")
}
