// Package metrics exposes Prometheus counters for the API.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vnxcius/sign-backend/internal/database/model"
)

type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	authOutcomes   *prometheus.CounterVec
	authRejected   prometheus.Counter
	surveysCreated prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signapp_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signapp_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signapp_auth_outcomes_total",
			Help: "Login and sign-up attempts by outcome.",
		}, []string{"operation", "outcome"}),
		authRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signapp_auth_rejected_requests_total",
			Help: "Requests rejected for a missing, invalid or expired session token.",
		}),
		surveysCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signapp_surveys_created_total",
			Help: "Surveys stored.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.authOutcomes,
		c.authRejected,
		c.surveysCreated,
	)
	return c
}

func (c *Collector) RecordRequest(route string, statusCode int, latency time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.WithLabelValues(route).Observe(latency.Seconds())
}

func (c *Collector) RecordAuthOutcome(operation, outcome string) {
	c.authOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordAuthRejected() {
	c.authRejected.Inc()
}

func (c *Collector) RecordSurveyCreated() {
	c.surveysCreated.Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// SurveyCreated lets the collector subscribe to survey writes.
func (c *Collector) SurveyCreated(context.Context, model.Survey) error {
	c.RecordSurveyCreated()
	return nil
}
