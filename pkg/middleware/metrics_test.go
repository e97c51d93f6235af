package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var d dto.Metric
	require.NoError(t, m.Write(&d))
	switch {
	case d.Counter != nil:
		return d.GetCounter().GetValue()
	case d.Gauge != nil:
		return d.GetGauge().GetValue()
	}
	return -1
}

func TestHTTPMetrics_CountsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "brand-service")

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/brand/{id}", okHandler)

	for _, path := range []string{"/brand/1", "/brand/2", "/brand/3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := metricValue(t, m.requests.WithLabelValues(http.MethodGet, "/brand/{id}", "200"))
	assert.Equal(t, float64(3), got)
	assert.Equal(t, float64(0), metricValue(t, m.inFlight))
}

func TestHTTPMetrics_InFlightDuringRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "brand-service")

	var during float64
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		during = metricValue(t, m.inFlight)
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, float64(1), during)
}

func TestHTTPMetrics_ServiceConstLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "brand-service")
	m.Handler(http.HandlerFunc(okHandler)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			found := false
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "service" && lp.GetValue() == "brand-service" {
					found = true
				}
			}
			assert.True(t, found, "metric %s lacks service label", f.GetName())
		}
	}
}
