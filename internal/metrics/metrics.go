package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service's collectors. A nil *Metrics is valid and
// records nothing, so packages can take it as an optional dependency.
type Metrics struct {
	Classifications *prometheus.CounterVec
	ClassifyLatency *prometheus.HistogramVec
	IssuesCreated   *prometheus.CounterVec
	UpvoteToggles   *prometheus.CounterVec
	HTTPRequests    *prometheus.HistogramVec
	RateLimited     prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintain",
			Name:      "classifications_total",
			Help:      "Report classifications by source (external, fallback) and fallback reason.",
		}, []string{"source", "reason"}),
		ClassifyLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "maintain",
			Name:      "classification_duration_seconds",
			Help:      "Time spent classifying a report, including the fallback.",
			Buckets:   []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 20, 30},
		}, []string{"source"}),
		IssuesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintain",
			Name:      "issues_created_total",
			Help:      "Issues created by category.",
		}, []string{"category"}),
		UpvoteToggles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintain",
			Name:      "upvote_toggles_total",
			Help:      "Upvote toggles by resulting state.",
		}, []string{"upvoted"}),
		HTTPRequests: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "maintain",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: "maintain",
			Name:      "report_rate_limited_total",
			Help:      "Report submissions rejected by the per-reporter limit.",
		}),
	}
}

func (m *Metrics) ObserveClassification(source, reason string, d time.Duration) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(source, reason).Inc()
	m.ClassifyLatency.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) IssueCreated(category string) {
	if m == nil {
		return
	}
	m.IssuesCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) UpvoteToggled(upvoted bool) {
	if m == nil {
		return
	}
	m.UpvoteToggles.WithLabelValues(strconv.FormatBool(upvoted)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) ReportRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
