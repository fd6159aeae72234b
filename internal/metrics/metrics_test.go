package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c *PrometheusCounter, labels ...string) float64 {
	t.Helper()

	m := &dto.Metric{}
	require.NoError(t, c.counter.WithLabelValues(labels...).Write(m))
	return m.GetCounter().GetValue()
}

func TestPrometheusCounter_Inc(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCounter(reg, "test_total", "test", []string{"format", "status"})

	c.Inc("csv", "success")
	c.Inc("csv", "success")
	c.Inc("xlsx", "error")

	assert.Equal(t, 2.0, counterValue(t, c, "csv", "success"))
	assert.Equal(t, 1.0, counterValue(t, c, "xlsx", "error"))
}

func TestNewTestCounters_Independent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewTestCounters()
		NewTestCounters()
	})
}

func TestConfigureRouter(t *testing.T) {
	e := echo.New()
	ConfigureRouter(e)

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
