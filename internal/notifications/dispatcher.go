package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/pkg/config"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"github.com/sumopedidos/sumo-backend/pkg/whatsapp"
)

const (
	resultSent    = "sent"
	resultFailed  = "failed"
	resultSkipped = "skipped"
)

var errMissingPhone = errors.New("line has no phone number")

// Outcome is the delivery result for a single recipient.
type Outcome struct {
	LineID  uuid.UUID `json:"line_id"`
	Phone   string    `json:"phone"`
	OK      bool      `json:"ok"`
	Skipped bool      `json:"skipped,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// BatchResult collects the per-recipient outcomes of one lifecycle event.
type BatchResult struct {
	Kind    enums.NotificationKind `json:"kind"`
	Results []Outcome              `json:"results"`
	Sent    int                    `json:"sent"`
	Failed  int                    `json:"failed"`
	Skipped int                    `json:"skipped"`
}

func (b *BatchResult) add(o Outcome) {
	b.Results = append(b.Results, o)
	switch {
	case o.OK:
		b.Sent++
	case o.Skipped:
		b.Skipped++
	default:
		b.Failed++
	}
}

type metricsRecorder interface {
	IncNotification(kind, result string)
}

// DispatcherParams wires the dispatcher's collaborators. Config is injected
// here so nothing below reads the environment.
type DispatcherParams struct {
	Config      config.NotifyConfig
	CountryCode string
	Sender      whatsapp.Sender
	Logs        Repository
	Metrics     metricsRecorder
	Logger      *logger.Logger
}

// Dispatcher sends best-effort WhatsApp messages. A failed send is logged,
// counted and recorded; it is never returned as an error.
type Dispatcher struct {
	composer    Composer
	countryCode string
	sender      whatsapp.Sender
	logs        Repository
	metrics     metricsRecorder
	logg        *logger.Logger
}

// NewDispatcher validates the collaborators and returns a dispatcher.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Sender == nil {
		return nil, fmt.Errorf("whatsapp sender required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{
		composer:    NewComposer(params.Config),
		countryCode: params.CountryCode,
		sender:      params.Sender,
		logs:        params.Logs,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

// Composer exposes the message composer, mostly for previews and tests.
func (d *Dispatcher) Composer() Composer {
	return d.composer
}

// LineConfirmation acknowledges a submitted line to its participant.
func (d *Dispatcher) LineConfirmation(ctx context.Context, order *models.GroupOrder, line models.OrderLine) Outcome {
	return d.send(ctx, enums.NotificationKindLineConfirmation, order, line, d.composer.LineConfirmation(order, line))
}

// OrderClosed notifies every line of its frozen share and total.
func (d *Dispatcher) OrderClosed(ctx context.Context, order *models.GroupOrder, lines []models.OrderLine) BatchResult {
	return d.batch(ctx, enums.NotificationKindOrderClosed, order, lines, d.composer.OrderClosed)
}

// OrderCancelled notifies every line that nothing is owed.
func (d *Dispatcher) OrderCancelled(ctx context.Context, order *models.GroupOrder, lines []models.OrderLine) BatchResult {
	return d.batch(ctx, enums.NotificationKindOrderCancelled, order, lines, d.composer.OrderCancelled)
}

// OrderDelivered notifies every line that the food arrived.
func (d *Dispatcher) OrderDelivered(ctx context.Context, order *models.GroupOrder, lines []models.OrderLine) BatchResult {
	return d.batch(ctx, enums.NotificationKindOrderDelivered, order, lines, d.composer.OrderDelivered)
}

// PaymentReminder sends a single reminder with transfer details.
func (d *Dispatcher) PaymentReminder(ctx context.Context, order *models.GroupOrder, line models.OrderLine, bankOverride string) Outcome {
	return d.send(ctx, enums.NotificationKindPaymentReminder, order, line, d.composer.PaymentReminder(order, line, bankOverride))
}

func (d *Dispatcher) batch(
	ctx context.Context,
	kind enums.NotificationKind,
	order *models.GroupOrder,
	lines []models.OrderLine,
	compose func(*models.GroupOrder, models.OrderLine) string,
) BatchResult {
	result := BatchResult{Kind: kind, Results: make([]Outcome, 0, len(lines))}
	for _, line := range lines {
		result.add(d.send(ctx, kind, order, line, compose(order, line)))
	}

	logCtx := d.logg.WithOrderID(ctx, order.ID.String())
	logCtx = d.logg.WithFields(logCtx, map[string]any{
		"kind":    string(kind),
		"sent":    result.Sent,
		"failed":  result.Failed,
		"skipped": result.Skipped,
	})
	d.logg.Info(logCtx, "notification batch dispatched")
	return result
}

func (d *Dispatcher) send(ctx context.Context, kind enums.NotificationKind, order *models.GroupOrder, line models.OrderLine, text string) Outcome {
	phone := whatsapp.NormalizePhone(line.WhatsApp, d.countryCode)
	outcome := Outcome{LineID: line.ID, Phone: phone}

	var err error
	if phone == "" {
		err = errMissingPhone
	} else {
		err = d.sender.SendText(ctx, phone, text)
	}

	logCtx := d.logg.WithOrderID(ctx, order.ID.String())
	logCtx = d.logg.WithLineID(logCtx, line.ID.String())
	logCtx = d.logg.WithField(logCtx, "kind", string(kind))

	result := resultSent
	switch {
	case err == nil:
		outcome.OK = true
	case errors.Is(err, whatsapp.ErrNotConfigured), errors.Is(err, errMissingPhone):
		outcome.Skipped = true
		outcome.Error = err.Error()
		result = resultSkipped
		d.logg.Debug(logCtx, "notification skipped")
	default:
		outcome.Error = err.Error()
		result = resultFailed
		d.logg.Error(logCtx, "notification send failed", err)
	}

	if d.metrics != nil {
		d.metrics.IncNotification(string(kind), result)
	}
	d.record(logCtx, kind, order, outcome)
	return outcome
}

func (d *Dispatcher) record(ctx context.Context, kind enums.NotificationKind, order *models.GroupOrder, outcome Outcome) {
	if d.logs == nil {
		return
	}
	entry := &models.NotificationLog{
		GroupOrderID: order.ID,
		Kind:         kind,
		Phone:        outcome.Phone,
		OK:           outcome.OK,
		Skipped:      outcome.Skipped,
	}
	if outcome.LineID != uuid.Nil {
		lineID := outcome.LineID
		entry.OrderLineID = &lineID
	}
	if outcome.Error != "" {
		msg := outcome.Error
		entry.Error = &msg
	}
	if err := d.logs.Create(ctx, entry); err != nil {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "notification log not persisted")
	}
}
