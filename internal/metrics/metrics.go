package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)

	// Business
	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_logins_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)
	searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_fare_searches_total",
			Help: "Fare searches by outcome.",
		},
		[]string{"outcome"},
	)
	fareUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_fare_updates_total",
			Help: "Fare update submissions by action type and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,

			logins,
			searches,
			fareUpdates,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTPRequest(method, route, code string, d time.Duration) {
	httpRequests.WithLabelValues(method, route, code).Inc()
	httpDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

func IncLogin(outcome string)  { logins.WithLabelValues(outcome).Inc() }
func IncSearch(outcome string) { searches.WithLabelValues(outcome).Inc() }
func IncFareUpdate(action, outcome string) {
	fareUpdates.WithLabelValues(action, outcome).Inc()
}
