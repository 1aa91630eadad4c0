package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the front.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	sessionLookups   *prometheus.CounterVec
	sessionWrite     prometheus.Observer
	dialogOutcomes   *prometheus.CounterVec
	scheduleLoading  prometheus.Gauge
	staleResponses   prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lesson_api_request_duration_seconds",
		Help:    "Duration of calls to the lesson API",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	sessionLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_lookups_total",
		Help: "Session store lookups by result",
	}, []string{"result"})

	sessionWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "session_write_seconds",
		Help:    "Latency for session store writes",
		Buckets: prometheus.DefBuckets,
	})

	dialogOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lesson_dialog_outcomes_total",
		Help: "Lesson dialog and delete outcomes",
	}, []string{"operation", "outcome"})

	scheduleLoading := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_loads_in_flight",
		Help: "Student month loads currently marked as loading",
	})

	staleResponses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_stale_responses_total",
		Help: "Month responses discarded because a newer navigation superseded them",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, sessionLookups, sessionWrite, dialogOutcomes, scheduleLoading, staleResponses, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		sessionLookups:   sessionLookups,
		sessionWrite:     sessionWrite,
		dialogOutcomes:   dialogOutcomes,
		scheduleLoading:  scheduleLoading,
		staleResponses:   staleResponses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mostly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstreamCall records one lesson API call.
func (m *MetricsService) ObserveUpstreamCall(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// RecordSessionLookup records a session store hit or miss.
func (m *MetricsService) RecordSessionLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.sessionLookups.WithLabelValues(result).Inc()
}

// ObserveSessionWrite tracks session store write latency.
func (m *MetricsService) ObserveSessionWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.sessionWrite.Observe(duration.Seconds())
}

// RecordDialogOutcome counts success, rejected, failed, cancelled and invalid outcomes.
func (m *MetricsService) RecordDialogOutcome(operation, outcome string) {
	if m == nil {
		return
	}
	m.dialogOutcomes.WithLabelValues(operation, outcome).Inc()
}

// LoadStarted marks a month load as in flight.
func (m *MetricsService) LoadStarted() {
	if m == nil {
		return
	}
	m.scheduleLoading.Inc()
}

// LoadFinished clears the loading mark; stale loads are counted separately.
func (m *MetricsService) LoadFinished(stale bool) {
	if m == nil {
		return
	}
	m.scheduleLoading.Dec()
	if stale {
		m.staleResponses.Inc()
	}
}
