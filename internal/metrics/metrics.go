package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftbox_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "giftbox_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	contentMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftbox_content_mutations_total",
			Help: "Admin writes by entity and action",
		},
		[]string{"entity", "action"},
	)

	renderCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftbox_render_cache_total",
			Help: "Render cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	cacheInvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftbox_cache_invalidations_total",
			Help: "Render cache invalidations by trigger",
		},
		[]string{"trigger"}, // mutation, schedule
	)

	uploadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "giftbox_upload_bytes_total",
			Help: "Bytes written to the object store",
		},
	)

	loginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftbox_admin_login_attempts_total",
			Help: "Admin login attempts by outcome",
		},
		[]string{"outcome"},
	)

	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "giftbox_database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "giftbox_database_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var once sync.Once

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(contentMutationsTotal)
	prometheus.MustRegister(renderCacheTotal)
	prometheus.MustRegister(cacheInvalidationsTotal)
	prometheus.MustRegister(uploadBytesTotal)
	prometheus.MustRegister(loginAttemptsTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)

	once.Do(func() {
		// the default registry may already carry these
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRequest(method, route string, status int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, fmt.Sprintf("%d", status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordMutation(entity, action string) {
	contentMutationsTotal.WithLabelValues(entity, action).Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		renderCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	renderCacheTotal.WithLabelValues("miss").Inc()
}

func RecordInvalidation(trigger string) {
	cacheInvalidationsTotal.WithLabelValues(trigger).Inc()
}

func RecordUpload(bytes int64) {
	uploadBytesTotal.Add(float64(bytes))
}

func RecordLogin(outcome string) {
	loginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// UpdateDatabaseConnections copies the pool stats into the gauges.
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.InUse))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	return nil
}
