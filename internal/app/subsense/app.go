package subsense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/subsense/internal/cache"
	"github.com/magabrotheeeer/subsense/internal/config"
	"github.com/magabrotheeeer/subsense/internal/events"
	"github.com/magabrotheeeer/subsense/internal/grpc/health"
	"github.com/magabrotheeeer/subsense/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subsense/internal/lib/jwt"
	"github.com/magabrotheeeer/subsense/internal/lib/sl"
	"github.com/magabrotheeeer/subsense/internal/migrations"
	"github.com/magabrotheeeer/subsense/internal/services/identity"
	subservice "github.com/magabrotheeeer/subsense/internal/services/subscription"
	"github.com/magabrotheeeer/subsense/internal/storage"
)

// App владеет серверами и подключениями процесса.
type App struct {
	cfg    *config.Config
	server *http.Server
	health *health.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
}

// New подключается к зависимостям, применяет миграции и собирает серверы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "subsense.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	var publisher subservice.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := events.Connect(cfg.RabbitMQ.URL, cfg.ConnectRetries, cfg.RetryDelay)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.amqp = conn
		ch, err := events.SetupChannel(conn, cfg.Exchange)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = events.NewPublisher(ch, cfg.Exchange)
	} else {
		logger.Info("rabbitmq url is empty, events are not published")
	}

	tokens := jwt.NewJWTMaker(cfg.Identity.SecretKey, cfg.TokenTTL, cfg.Issuer)
	resolver := identity.NewResolver(db, cacheRedis, logger, cfg.Cache.IdentityTTL, cfg.PlaceholderEmail)
	subscriptionService := subservice.NewService(db, resolver, cacheRedis, publisher, logger, cfg.Cache.ListTTL, cfg.Currency)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Routes{
		Subscriptions:  subscriptionService,
		Tokens:         tokens,
		Pinger:         db,
		Limiter:        middlewarectx.NewRateLimiter(cfg.RPS, cfg.Burst),
		SessionCookie:  cfg.SessionCookie,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	app.health = health.New(logger, db, cfg.HealthInterval)

	return app, nil
}

// Run запускает HTTP- и gRPC-серверы и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.cfg.AddressGRPC)
	if err != nil {
		return fmt.Errorf("subsense.Run: listen grpc: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.health.Serve(lis)
	})

	g.Go(func() error {
		a.health.Watch(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down servers gracefully")
		a.health.Stop()
		return a.server.Shutdown(timeoutCtx)
	})

	err = g.Wait()
	a.Close()
	return err
}

// Close освобождает подключения к хранилищам и брокеру.
func (a *App) Close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis client", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", sl.Err(err))
		}
	}
}
