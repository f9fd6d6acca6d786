package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheOps        *prometheus.CounterVec
	planDuration    prometheus.Observer
	planRuns        *prometheus.CounterVec
	seatingRuns     *prometheus.CounterVec
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

	cacheOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_operations_total",
		Help: "Cache lookups by outcome",
	}, []string{"operation", "outcome"})

	planDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "exam_plan_duration_seconds",
		Help:    "Duration of exam planning runs",
		Buckets: prometheus.DefBuckets,
	})

	planRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exam_plan_runs_total",
		Help: "Planning runs by outcome",
	}, []string{"outcome"})

	seatingRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seat_assignment_runs_total",
		Help: "Seat assignment runs by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheOps, planDuration, planRuns, seatingRuns, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheOps:        cacheOps,
		planDuration:    planDuration,
		planRuns:        planRuns,
		seatingRuns:     seatingRuns,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// RecordCacheOperation counts a cache lookup or write by outcome.
func (m *MetricsService) RecordCacheOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues(operation, outcome).Inc()
}

// ObservePlanRun records one planning run.
func (m *MetricsService) ObservePlanRun(duration time.Duration, outcome string) {
	if m == nil {
		return
	}
	m.planDuration.Observe(duration.Seconds())
	m.planRuns.WithLabelValues(outcome).Inc()
}

// RecordSeatingRun counts one seat assignment run.
func (m *MetricsService) RecordSeatingRun(outcome string) {
	if m == nil {
		return
	}
	m.seatingRuns.WithLabelValues(outcome).Inc()
}
