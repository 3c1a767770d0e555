package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"gorm.io/gorm"
)

const defaultNotificationRetentionDays = 30

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notificationLogPruner interface {
	DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// NotificationLogRetentionJobParams wires the log pruning job.
type NotificationLogRetentionJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Repository    notificationLogPruner
	RetentionDays int
}

// NewNotificationLogRetentionJob returns the job that prunes old dispatch logs.
func NewNotificationLogRetentionJob(params NotificationLogRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("notification log repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultNotificationRetentionDays
	}
	return &notificationLogRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type notificationLogRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      notificationLogPruner
	retention int
	now       func() time.Time
}

func (j *notificationLogRetentionJob) Name() string { return "notification-log-retention" }

func (j *notificationLogRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteOlderThan(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("notification log retention: %w", err)
	}
	if deleted > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"cutoff":         cutoff,
			"retention_days": j.retention,
			"rows_deleted":   deleted,
		})
		j.logg.Info(logCtx, "notification logs pruned")
	}
	return nil
}
