package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsRunOrder(t *testing.T) {
	closeJob := &stubJob{name: "deadline-close"}
	pruneJob := &stubJob{name: "notification-log-retention"}
	registry, err := NewRegistry(closeJob, nil, pruneJob)
	require.NoError(t, err)

	jobs := registry.Jobs()
	require.Len(t, jobs, 2)
	assert.Same(t, closeJob, jobs[0])
	assert.Same(t, pruneJob, jobs[1])
	assert.Equal(t, []string{"deadline-close", "notification-log-retention"}, registry.Names())

	jobs[0] = nil
	assert.NotNil(t, registry.Jobs()[0], "internal slice leaked")
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	_, err := NewRegistry(&stubJob{name: "deadline-close"}, &stubJob{name: "deadline-close"})
	assert.Error(t, err)

	var registry Registry
	require.NoError(t, registry.Register(&stubJob{name: "a"}))
	assert.Error(t, registry.Register(&stubJob{name: "a"}))
}
