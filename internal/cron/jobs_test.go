package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sumopedidos/sumo-backend/internal/grouporders"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"gorm.io/gorm"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

type fakeDueCloser struct {
	lastNow time.Time
	result  *grouporders.SweepResult
	err     error
}

func (f *fakeDueCloser) CloseDue(_ context.Context, now time.Time) (*grouporders.SweepResult, error) {
	f.lastNow = now
	return f.result, f.err
}

func TestDeadlineCloseJobPassesCurrentTime(t *testing.T) {
	now := time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC)
	closer := &fakeDueCloser{result: &grouporders.SweepResult{Due: 2, Closed: 1, Cancelled: 1}}
	jobIface, err := NewDeadlineCloseJob(DeadlineCloseJobParams{Logger: testLogger(), Orders: closer})
	if err != nil {
		t.Fatalf("NewDeadlineCloseJob: %v", err)
	}
	job := jobIface.(*deadlineCloseJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !closer.lastNow.Equal(now) {
		t.Fatalf("expected sweep at %s, got %s", now, closer.lastNow)
	}
	if job.Name() != "deadline-close" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
}

func TestDeadlineCloseJobPropagatesSweepErrors(t *testing.T) {
	closer := &fakeDueCloser{result: &grouporders.SweepResult{Due: 1, Failed: 1}, err: errors.New("close boom")}
	job, err := NewDeadlineCloseJob(DeadlineCloseJobParams{Logger: testLogger(), Orders: closer})
	if err != nil {
		t.Fatalf("NewDeadlineCloseJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeadlineCloseJobRequiresDependencies(t *testing.T) {
	if _, err := NewDeadlineCloseJob(DeadlineCloseJobParams{Logger: testLogger()}); err == nil {
		t.Fatal("expected error for missing orders service")
	}
	if _, err := NewDeadlineCloseJob(DeadlineCloseJobParams{Orders: &fakeDueCloser{}}); err == nil {
		t.Fatal("expected error for missing logger")
	}
}

type fakeLogPruner struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeLogPruner) DeleteOlderThan(_ context.Context, _ *gorm.DB, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newRetentionJob(t *testing.T, repo *fakeLogPruner, days int) *notificationLogRetentionJob {
	t.Helper()
	jobIface, err := NewNotificationLogRetentionJob(NotificationLogRetentionJobParams{
		Logger:        testLogger(),
		DB:            passthroughTxRunner{},
		Repository:    repo,
		RetentionDays: days,
	})
	if err != nil {
		t.Fatalf("NewNotificationLogRetentionJob: %v", err)
	}
	job, ok := jobIface.(*notificationLogRetentionJob)
	if !ok {
		t.Fatalf("expected notificationLogRetentionJob, got %T", jobIface)
	}
	return job
}

func TestNotificationLogRetentionJobUsesRetentionWindow(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeLogPruner{deletedRows: 42}
	job := newRetentionJob(t, repo, 0)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := now.Add(-defaultNotificationRetentionDays * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}

	custom := newRetentionJob(t, repo, 7)
	custom.now = func() time.Time { return now }
	if err := custom.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := now.Add(-7 * 24 * time.Hour); !repo.lastCutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, repo.lastCutoff)
	}
}

func TestNotificationLogRetentionJobPropagatesErrors(t *testing.T) {
	job := newRetentionJob(t, &fakeLogPruner{err: errors.New("boom")}, 0)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
