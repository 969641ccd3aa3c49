package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingMetrics_CountsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewListingMetrics(reg)

	ok := metrics.Instrument("products", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	notFound := metrics.Instrument("products", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for i := 0; i < 3; i++ {
		ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/listings/products", nil))
	}
	notFound.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/listings/products", nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.requests.WithLabelValues("products", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues("products", "404")))

	families, err := reg.Gather()
	require.NoError(t, err)

	var foundDuration bool
	for _, mf := range families {
		if mf.GetName() == "listing_request_duration_seconds" {
			foundDuration = true
		}
	}
	assert.True(t, foundDuration)
}
