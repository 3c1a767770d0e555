package grouporders

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/internal/notifications"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	minWhatsAppLength = 6
	maxNoteLength     = 300
)

// SubmitLine records a participant's line on an open order. The subtotal is
// fixed here from the menu price; the delivery share stays zero until close.
func (s *service) SubmitLine(ctx context.Context, slug string, input SubmitLineInput) (*SubmitLineResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	order, err := s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, mapOrderLookupError(err)
	}
	if order.Status != enums.GroupOrderStatusOpen {
		return nil, notAcceptingLines(order.Status)
	}

	item, err := s.menus.OrderableItem(ctx, order.MenuID, input.ItemID)
	if err != nil {
		return nil, err
	}

	subtotal := item.PriceGs * int64(input.Qty)
	line := models.OrderLine{
		GroupOrderID:    order.ID,
		Name:            strings.TrimSpace(input.Name),
		WhatsApp:        strings.TrimSpace(input.WhatsApp),
		PayMethod:       input.PayMethod,
		ItemID:          item.ID,
		ItemName:        item.Name,
		UnitPriceGs:     item.PriceGs,
		Qty:             input.Qty,
		Note:            trimmedOrNil(input.Note),
		SubtotalGs:      subtotal,
		DeliveryShareGs: 0,
		TotalGs:         subtotal,
		Status:          enums.LineStatusPending,
	}
	// The order row is locked for the insert so a concurrent close either
	// sees this line or this insert sees the order already closed.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := repo.FindByID(ctx, order.ID, true)
		if err != nil {
			return mapOrderLookupError(err)
		}
		if locked.Status != enums.GroupOrderStatusOpen {
			return notAcceptingLines(locked.Status)
		}
		order = locked
		return repo.CreateLine(ctx, &line)
	})
	if err != nil {
		return nil, asServiceError(err, "create order line")
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	logCtx = s.logg.WithLineID(logCtx, line.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "subtotal_gs", line.SubtotalGs), "order line submitted")

	return &SubmitLineResult{
		Line:         line,
		Notification: s.notifier.LineConfirmation(ctx, order, line),
	}, nil
}

func (in SubmitLineInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if len(strings.TrimSpace(in.WhatsApp)) < minWhatsAppLength {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "whatsapp must be at least %d characters", minWhatsAppLength)
	}
	if !in.PayMethod.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid pay method %q", in.PayMethod)
	}
	if in.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if in.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}
	if in.Note != nil && utf8.RuneCountInString(*in.Note) > maxNoteLength {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "note must be at most %d characters", maxNoteLength)
	}
	return nil
}

// MarkLinePaid settles a line whose total was frozen at close. Any other
// status, including an already paid line, is a conflict.
func (s *service) MarkLinePaid(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error) {
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}

	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return nil, mapLineLookupError(err)
	}
	if line.Status != enums.LineStatusAwaitingPayment {
		return nil, lineStatusConflict("mark paid", line.Status)
	}

	moved, err := s.repo.TransitionLineStatus(ctx, lineID, enums.LineStatusAwaitingPayment, enums.LineStatusPaid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark line paid")
	}
	if !moved {
		return nil, lineStatusConflict("mark paid", enums.LineStatusPaid)
	}
	line.Status = enums.LineStatusPaid

	logCtx := s.logg.WithOrderID(ctx, line.GroupOrderID.String())
	s.logg.Info(s.logg.WithLineID(logCtx, line.ID.String()), "order line marked paid")
	return line, nil
}

// SendPaymentReminder messages a participant who still owes their total.
func (s *service) SendPaymentReminder(ctx context.Context, lineID uuid.UUID, bankOverride string) (*notifications.Outcome, error) {
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}

	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return nil, mapLineLookupError(err)
	}
	if line.Status != enums.LineStatusAwaitingPayment {
		return nil, lineStatusConflict("send reminder", line.Status)
	}
	order, err := s.repo.FindByID(ctx, line.GroupOrderID, false)
	if err != nil {
		return nil, mapOrderLookupError(err)
	}

	outcome := s.notifier.PaymentReminder(ctx, order, *line, bankOverride)
	return &outcome, nil
}

func notAcceptingLines(current enums.GroupOrderStatus) error {
	return pkgerrors.Newf(pkgerrors.CodeConflict, "group order is %s and no longer accepts lines", current).
		WithDetails(map[string]any{"current_status": current})
}

func lineStatusConflict(action string, current enums.LineStatus) error {
	return pkgerrors.Newf(pkgerrors.CodeConflict, "cannot %s: line is %s, expected %s", action, current, enums.LineStatusAwaitingPayment).
		WithDetails(map[string]any{
			"current_status":  current,
			"required_status": enums.LineStatusAwaitingPayment,
		})
}
