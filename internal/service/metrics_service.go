package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

const metricsNamespace = "scheduling"

// MetricsService owns the Prometheus registry for the API and the engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	dbQueryDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	checks          *prometheus.CounterVec
	issues          *prometheus.CounterVec
	agendaDuration  prometheus.Observer
	invalidations   *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers all collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "db_query_duration_seconds",
		Help:      "Duration of schedule data queries",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "cache_lookups_total",
		Help:      "Agenda cache lookups by result",
	}, []string{"result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "cache_latency_seconds",
		Help:      "Latency for cache reads",
		Buckets:   prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "cache_write_seconds",
		Help:      "Latency for cache writes",
		Buckets:   prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "cache_hit_ratio",
		Help:      "Ratio of cache hits to total cache lookups",
	})

	checks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "availability_checks_total",
		Help:      "Availability checks by verdict",
	}, []string{"verdict"})

	issues := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "availability_issues_total",
		Help:      "Issues reported by availability checks",
	}, []string{"kind"})

	agendaDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "agenda_build_seconds",
		Help:      "Time spent building uncached day agendas",
		Buckets:   prometheus.DefBuckets,
	})

	invalidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "agenda_invalidations_total",
		Help:      "Agenda cache invalidations by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Number of running goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, dbQueryDuration, cacheLookups, cacheLatency, cacheWrite, cacheHitRatio,
		checks, issues, agendaDuration, invalidations, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		dbQueryDuration: dbQueryDuration,
		cacheLookups:    cacheLookups,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		checks:          checks,
		issues:          issues,
		agendaDuration:  agendaDuration,
		invalidations:   invalidations,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request latency.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordCacheOperation records a cache lookup and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	m.cacheHitRatio.Set(float64(hits) / float64(total))
}

// ObserveCacheWrite tracks the duration of cache writes.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordAvailabilityCheck counts a verdict and each reported issue kind.
func (m *MetricsService) RecordAvailabilityCheck(result *models.AvailabilityResult) {
	if m == nil || result == nil {
		return
	}
	verdict := "unavailable"
	if result.Available {
		verdict = "available"
	}
	m.checks.WithLabelValues(verdict).Inc()
	for _, issue := range result.Issues {
		m.issues.WithLabelValues(string(issue.Kind)).Inc()
	}
}

// ObserveAgendaBuild records how long an uncached agenda took.
func (m *MetricsService) ObserveAgendaBuild(duration time.Duration) {
	if m == nil {
		return
	}
	m.agendaDuration.Observe(duration.Seconds())
}

// RecordInvalidation counts a cache invalidation attempt.
func (m *MetricsService) RecordInvalidation(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.invalidations.WithLabelValues(outcome).Inc()
}
