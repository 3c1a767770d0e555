package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sumopedidos/sumo-backend/internal/grouporders"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
)

type dueCloser interface {
	CloseDue(ctx context.Context, now time.Time) (*grouporders.SweepResult, error)
}

// DeadlineCloseJobParams wires the deadline sweep.
type DeadlineCloseJobParams struct {
	Logger *logger.Logger
	Orders dueCloser
}

// NewDeadlineCloseJob returns the job that closes open orders past their deadline.
func NewDeadlineCloseJob(params DeadlineCloseJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("group orders service required")
	}
	return &deadlineCloseJob{
		logg:   params.Logger,
		orders: params.Orders,
		now:    time.Now,
	}, nil
}

type deadlineCloseJob struct {
	logg   *logger.Logger
	orders dueCloser
	now    func() time.Time
}

func (j *deadlineCloseJob) Name() string { return "deadline-close" }

func (j *deadlineCloseJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	sweep, err := j.orders.CloseDue(ctx, now)
	if sweep != nil && sweep.Due > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"due":            sweep.Due,
			"closed":         sweep.Closed,
			"cancelled":      sweep.Cancelled,
			"already_closed": sweep.AlreadyClosed,
			"failed":         sweep.Failed,
		})
		j.logg.Info(logCtx, "deadline sweep complete")
	}
	if err != nil {
		return fmt.Errorf("deadline close: %w", err)
	}
	return nil
}
