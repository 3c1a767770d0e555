package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type memoryStore struct {
	values map[string]string
	err    error
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryStore) DeleteIfEquals(_ context.Context, key, expected string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.values[key] != expected {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func TestRedisLockIsExclusiveAndOwnerChecked(t *testing.T) {
	t.Setenv("SUMO_INSTANCE_ID", "cron-a")
	store := &memoryStore{values: map[string]string{}}
	ctx := context.Background()

	first, err := NewRedisLock(store, "sumo:lock:cron-worker:dev", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, _ := NewRedisLock(store, "sumo:lock:cron-worker:dev", time.Minute)

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if !strings.HasPrefix(store.values["sumo:lock:cron-worker:dev"], "cron-a/") {
		t.Fatalf("expected owner to name the instance, got %q", store.values["sumo:lock:cron-worker:dev"])
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("second acquire should fail while held")
	}
	// releasing without holding is a no-op
	if err := second.Release(ctx); err != nil {
		t.Fatalf("second release: %v", err)
	}
	if _, ok := store.values["sumo:lock:cron-worker:dev"]; !ok {
		t.Fatal("lock removed by non-owner")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("expected second acquire after release")
	}
}

func TestRedisLockLeavesTakenOverLock(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	ctx := context.Background()
	lock, _ := NewRedisLock(store, "k", time.Minute)
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	// TTL lapsed and another worker took over
	store.values["k"] = "other/worker"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["k"] != "other/worker" {
		t.Fatal("release must not delete a lock held by another worker")
	}
}

func TestRedisLockWrapsStoreErrors(t *testing.T) {
	boom := errors.New("redis down")
	lock, _ := NewRedisLock(&memoryStore{values: map[string]string{}, err: boom}, "k", 0)
	if _, err := lock.Acquire(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if lock.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", lock.ttl)
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewRedisLock(&memoryStore{}, "", time.Minute); err == nil {
		t.Fatal("expected error for empty key")
	}
}
