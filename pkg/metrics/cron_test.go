package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsSplitsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	finished := time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC)

	m.ObserveRun("deadline-close", 250*time.Millisecond, nil, finished)
	m.ObserveRun("deadline-close", 10*time.Millisecond, errors.New("db down"), finished.Add(time.Minute))
	m.ObserveRun("", time.Millisecond, nil, finished)
	m.IncSkipped()

	families, err := reg.Gather()
	require.NoError(t, err)

	runs := family(t, families, "cron_job_runs_total")
	require.Equal(t, 1.0, counterFor(runs, map[string]string{"job": "deadline-close", "result": "success"}))
	require.Equal(t, 1.0, counterFor(runs, map[string]string{"job": "deadline-close", "result": "failure"}))
	require.Equal(t, 1.0, counterFor(runs, map[string]string{"job": "unknown", "result": "success"}))

	// a failure must not move the last-success mark
	last := family(t, families, "cron_job_last_success_timestamp_seconds")
	for _, metric := range last.GetMetric() {
		if labelsMatch(metric, map[string]string{"job": "deadline-close"}) {
			require.Equal(t, float64(finished.Unix()), metric.GetGauge().GetValue())
		}
	}

	hist := family(t, families, "cron_job_duration_seconds")
	for _, metric := range hist.GetMetric() {
		if labelsMatch(metric, map[string]string{"job": "deadline-close"}) {
			require.EqualValues(t, 2, metric.GetHistogram().GetSampleCount())
		}
	}

	skipped := family(t, families, "cron_cycles_skipped_total")
	require.Equal(t, 1.0, skipped.GetMetric()[0].GetCounter().GetValue())
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var nilMetrics *CronJobMetrics
	require.NotPanics(t, func() {
		nilMetrics.ObserveRun("x", time.Second, nil, time.Now())
		nilMetrics.IncSkipped()
		NewCronJobMetrics(nil).ObserveRun("x", time.Second, errors.New("x"), time.Now())
	})
}

func family(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %q not gathered", name)
	return nil
}

func counterFor(mf *dto.MetricFamily, labels map[string]string) float64 {
	for _, metric := range mf.GetMetric() {
		if labelsMatch(metric, labels) {
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func labelsMatch(metric *dto.Metric, want map[string]string) bool {
	matched := 0
	for _, pair := range metric.GetLabel() {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
