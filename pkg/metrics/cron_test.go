package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	m.ObserveRun("inventory-audit", 250*time.Millisecond, nil)
	m.ObserveRun("inventory-audit", time.Second, errors.New("gold is negative"))
	m.ObserveRun("", time.Millisecond, nil)

	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("inventory-audit", JobSucceeded)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("inventory-audit", JobFailed)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("unknown", JobSucceeded)))
	require.Equal(t, 1_700_000_000.0, testutil.ToFloat64(m.lastSuccess.WithLabelValues("inventory-audit")))
	require.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestCronJobMetricsWithoutRegistryIsNoop(t *testing.T) {
	var nilMetrics *CronJobMetrics
	require.NotPanics(t, func() {
		nilMetrics.ObserveRun("job", time.Second, nil)
		NewCronJobMetrics(nil).ObserveRun("job", time.Second, errors.New("x"))
	})
}
