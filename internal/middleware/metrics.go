package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ListingMetrics records request counts and latencies for listing endpoints.
type ListingMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewListingMetrics creates and registers listing metrics on the given
// registerer.
func NewListingMetrics(reg prometheus.Registerer) *ListingMetrics {
	m := &ListingMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_requests_total",
			Help: "Total listing requests by listing name and status code.",
		}, []string{"listing", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "listing_request_duration_seconds",
			Help:    "Listing request latency by listing name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"listing"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Instrument wraps a listing handler and records its metrics under the given
// listing name.
func (m *ListingMetrics) Instrument(listing string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(wrapped, r)

		m.requests.WithLabelValues(listing, strconv.Itoa(wrapped.statusCode)).Inc()
		m.duration.WithLabelValues(listing).Observe(time.Since(start).Seconds())
	})
}
