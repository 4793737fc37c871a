// Package metrics объявляет Prometheus-метрики HTTP API и доменных операций.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests считает обработанные HTTP-запросы.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subsense",
		Name:      "http_requests_total",
		Help:      "Number of processed HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPDuration - длительность обработки запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "subsense",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SubscriptionsCreated считает созданные подписки по категориям.
	SubscriptionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subsense",
		Name:      "subscriptions_created_total",
		Help:      "Number of created subscriptions.",
	}, []string{"category", "billing_cycle"})

	// SubscriptionsDeactivated считает деактивированные подписки.
	SubscriptionsDeactivated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "subsense",
		Name:      "subscriptions_deactivated_total",
		Help:      "Number of deactivated subscriptions.",
	})

	// UsersCreated считает пользователей, созданных при первом обращении.
	UsersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "subsense",
		Name:      "users_created_total",
		Help:      "Number of users created on first contact.",
	})

	// CacheResults считает попадания и промахи кэша.
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subsense",
		Name:      "cache_results_total",
		Help:      "Cache lookups by result.",
	}, []string{"cache", "result"})
)

// Middleware записывает количество и длительность запросов.
// В метку route попадает шаблон маршрута chi, а не исходный путь.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
