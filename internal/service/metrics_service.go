package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Join outcomes recorded on classroom_join_total.
const (
	joinResultSuccess = "success"
	joinResultFailed  = "failed"
)

// MetricsService encapsulates Prometheus instrumentation for the bridge and the client workflows.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	remoteDuration  *prometheus.HistogramVec
	joinTotal       *prometheus.CounterVec
	storageErrors   *prometheus.CounterVec
	notifications   *prometheus.CounterVec

	requestCount uint64
	joinCount    uint64
	joinFailures uint64
}

// MetricsSnapshot is a cheap summary printed by the CLI status command.
type MetricsSnapshot struct {
	Requests     uint64 `json:"requests"`
	Joins        uint64 `json:"joins"`
	JoinFailures uint64 `json:"joinFailures"`
	Goroutines   int    `json:"goroutines"`
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of bridge HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of bridge HTTP requests",
	}, []string{"method", "path", "status"})

	remoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classroom_remote_duration_seconds",
		Help:    "Latency of calls to the classroom API",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "result"})

	joinTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_join_total",
		Help: "Join attempts by result and the state they ended in",
	}, []string{"result", "stage"})

	storageErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_storage_errors_total",
		Help: "Local storage failures recovered by the client",
	}, []string{"op"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_notifications_total",
		Help: "Local notifications by type and delivery result",
	}, []string{"type", "result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, remoteDuration, joinTotal, storageErrors, notifications, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		remoteDuration:  remoteDuration,
		joinTotal:       joinTotal,
		storageErrors:   storageErrors,
		notifications:   notifications,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveHTTPRequest records bridge request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// ObserveRemote records the latency of one classroom API call.
func (m *MetricsService) ObserveRemote(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.remoteDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// RecordJoin counts a finished join attempt.
func (m *MetricsService) RecordJoin(result string, stage JoinState) {
	if m == nil {
		return
	}
	m.joinTotal.WithLabelValues(result, stage.String()).Inc()
	atomic.AddUint64(&m.joinCount, 1)
	if result != joinResultSuccess {
		atomic.AddUint64(&m.joinFailures, 1)
	}
}

// RecordStorageError counts a recovered storage failure.
func (m *MetricsService) RecordStorageError(op string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(op).Inc()
}

// RecordNotification counts a notification delivery attempt.
func (m *MetricsService) RecordNotification(kind, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Requests:     atomic.LoadUint64(&m.requestCount),
		Joins:        atomic.LoadUint64(&m.joinCount),
		JoinFailures: atomic.LoadUint64(&m.joinFailures),
		Goroutines:   runtime.NumGoroutine(),
	}
}
