// Package subsense собирает HTTP- и gRPC-серверы API подписок.
package subsense

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/subsense/docs"
	"github.com/magabrotheeeer/subsense/internal/http/handlers/health"
	"github.com/magabrotheeeer/subsense/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subsense/internal/http/handlers/subscription/deactivate"
	"github.com/magabrotheeeer/subsense/internal/http/handlers/subscription/export"
	"github.com/magabrotheeeer/subsense/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subsense/internal/http/handlers/subscription/summary"
	"github.com/magabrotheeeer/subsense/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subsense/internal/metrics"
	subservice "github.com/magabrotheeeer/subsense/internal/services/subscription"
)

// Routes содержит зависимости, необходимые для регистрации маршрутов.
type Routes struct {
	Subscriptions  *subservice.Service
	Tokens         middlewarectx.TokenParser
	Pinger         health.Pinger
	Limiter        *middlewarectx.RateLimiter
	SessionCookie  string
	AllowedOrigins []string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Routes) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	r.Route("/api/subscriptions", func(r chi.Router) {
		r.Use(middlewarectx.Authenticate(deps.Tokens, deps.SessionCookie, logger))
		if deps.Limiter != nil {
			r.Use(deps.Limiter.Middleware(logger))
		}
		r.Get("/", list.New(logger, deps.Subscriptions).ServeHTTP)
		r.Post("/", create.New(logger, deps.Subscriptions).ServeHTTP)
		r.Get("/summary", summary.New(logger, deps.Subscriptions).ServeHTTP)
		r.Get("/export", export.New(logger, deps.Subscriptions).ServeHTTP)
		r.Post("/{id}/deactivate", deactivate.New(logger, deps.Subscriptions).ServeHTTP)
	})

	r.Get("/healthz", health.New(logger, deps.Pinger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
