// Package identity сопоставляет внешнюю идентичность провайдера авторизации
// с внутренней учётной записью и создаёт её при первом обращении.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subsense/internal/cache"
	"github.com/magabrotheeeer/subsense/internal/lib/sl"
	"github.com/magabrotheeeer/subsense/internal/metrics"
	"github.com/magabrotheeeer/subsense/internal/models"
	"github.com/magabrotheeeer/subsense/internal/storage"
)

var (
	// ErrUnauthorized - в запросе нет внешней идентичности.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound - идентичность известна провайдеру, но пользователь ещё не создан.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository описывает операции хранилища с пользователями.
type UserRepository interface {
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Resolver находит или создаёт пользователя по внешней идентичности.
type Resolver struct {
	repo             UserRepository
	cache            Cache
	log              *slog.Logger
	ttl              time.Duration
	placeholderEmail string
}

// NewResolver создаёт Resolver. Email без claim в токене заменяется placeholderEmail.
func NewResolver(repo UserRepository, cache Cache, log *slog.Logger, ttl time.Duration, placeholderEmail string) *Resolver {
	return &Resolver{
		repo:             repo,
		cache:            cache,
		log:              log,
		ttl:              ttl,
		placeholderEmail: placeholderEmail,
	}
}

// Resolve возвращает пользователя для principal, создавая его при отсутствии.
// Повторные вызовы для одной идентичности не создают новых записей: если
// параллельный запрос успел вставить запись, она перечитывается.
func (r *Resolver) Resolve(ctx context.Context, principal models.Principal) (*models.User, error) {
	const op = "identity.Resolve"
	if principal.ExternalID == "" {
		return nil, ErrUnauthorized
	}

	user, err := r.lookup(ctx, principal.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	email := principal.Email
	if email == "" {
		email = r.placeholderEmail
	}
	user, err = r.repo.CreateUser(ctx, models.User{
		ID:         uuid.NewString(),
		ExternalID: principal.ExternalID,
		Email:      email,
	})
	switch {
	case errors.Is(err, storage.ErrUserExists):
		r.log.Debug("user created concurrently, re-fetching", slog.String("external_id", principal.ExternalID))
		user, err = r.repo.GetUserByExternalID(ctx, principal.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		metrics.UsersCreated.Inc()
		r.log.Info("created user", slog.String("user_id", user.ID))
	}

	r.remember(ctx, user)
	return user, nil
}

// Lookup возвращает существующего пользователя, не создавая новую запись.
func (r *Resolver) Lookup(ctx context.Context, externalID string) (*models.User, error) {
	const op = "identity.Lookup"
	if externalID == "" {
		return nil, ErrUnauthorized
	}
	user, err := r.lookup(ctx, externalID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (r *Resolver) lookup(ctx context.Context, externalID string) (*models.User, error) {
	key := cache.IdentityKey(externalID)
	var cached models.User
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.log.Warn("failed to read user from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		metrics.CacheResults.WithLabelValues("identity", "hit").Inc()
		return &cached, nil
	}
	metrics.CacheResults.WithLabelValues("identity", "miss").Inc()

	user, err := r.repo.GetUserByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	r.remember(ctx, user)
	return user, nil
}

func (r *Resolver) remember(ctx context.Context, user *models.User) {
	key := cache.IdentityKey(user.ExternalID)
	if err := r.cache.Set(ctx, key, user, r.ttl); err != nil {
		r.log.Warn("failed to cache user", slog.String("key", key), sl.Err(err))
	}
}
