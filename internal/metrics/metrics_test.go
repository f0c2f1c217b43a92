package metrics_test

import (
	"testing"

	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	appMetrics := metrics.NewMetrics(reg)

	require.NotNil(t, appMetrics)
	assert.InDelta(t, 0, testutil.ToFloat64(appMetrics.EmployeeChanges.WithLabelValues("created")), 0)

	appMetrics.EmployeeChanges.WithLabelValues("created").Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.EmployeeChanges.WithLabelValues("created")), 0)
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = metrics.NewMetrics(reg)

	assert.Panics(t, func() {
		_ = metrics.NewMetrics(reg)
	})
}
