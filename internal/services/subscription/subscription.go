// Package subscription содержит бизнес-логику создания и чтения подписок:
// разбор входных данных, кэширование списков и публикацию событий.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subsense/internal/cache"
	"github.com/magabrotheeeer/subsense/internal/dashboard"
	"github.com/magabrotheeeer/subsense/internal/lib/sl"
	"github.com/magabrotheeeer/subsense/internal/metrics"
	"github.com/magabrotheeeer/subsense/internal/models"
	"github.com/magabrotheeeer/subsense/internal/storage"
)

var (
	// ErrInvalidInput - входные данные не прошли проверку. Причина передаётся в InputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSubscriptionNotFound - подписка не найдена среди подписок пользователя.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// MsgMissingRequiredFields - причина отказа при отсутствии обязательного поля.
const MsgMissingRequiredFields = "Missing required fields"

// InputError описывает, какое поле запроса некорректно. Сопоставляется с ErrInvalidInput.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Reason
}

// Is позволяет проверять InputError через errors.Is(err, ErrInvalidInput).
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error)
	SetSubscriptionActive(ctx context.Context, userID, id string, active bool) (*models.Subscription, error)
}

// Identity сопоставляет principal с пользователем.
type Identity interface {
	Resolve(ctx context.Context, principal models.Principal) (*models.User, error)
	Lookup(ctx context.Context, externalID string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}

// Publisher публикует доменные события.
type Publisher interface {
	SubscriptionCreated(ctx context.Context, sub models.Subscription) error
	SubscriptionDeactivated(ctx context.Context, sub models.Subscription) error
}

// Service реализует операции API подписок.
type Service struct {
	repo      Repository
	identity  Identity
	cache     Cache
	publisher Publisher
	log       *slog.Logger
	listTTL   time.Duration
	currency  string
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, identity Identity, cache Cache, publisher Publisher,
	log *slog.Logger, listTTL time.Duration, currency string) *Service {
	return &Service{
		repo:      repo,
		identity:  identity,
		cache:     cache,
		publisher: publisher,
		log:       log,
		listTTL:   listTTL,
		currency:  currency,
	}
}

// List возвращает подписки пользователя, новые первыми.
// Пользователь не создаётся: для неизвестной идентичности возвращается ошибка.
func (s *Service) List(ctx context.Context, principal models.Principal) ([]models.Subscription, error) {
	const op = "subscription.List"

	user, err := s.identity.Lookup(ctx, principal.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := cache.SubscriptionsKey(user.ID)
	genKey := cache.SubscriptionsGenerationKey(user.ID)
	// Поколение читается до обращения к хранилищу: если список изменится
	// во время чтения, запись с этим поколением уже не будет выдана из кэша.
	gen, genErr := s.cache.Generation(ctx, genKey)
	if genErr != nil {
		s.log.Warn("failed to read cache generation", slog.String("key", genKey), sl.Err(genErr))
	}

	if genErr == nil {
		var cached listEntry
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read subscriptions from cache", slog.String("key", key), sl.Err(err))
		}
		if found && cached.Generation == gen && cached.Items != nil {
			metrics.CacheResults.WithLabelValues("subscriptions", "hit").Inc()
			return cached.Items, nil
		}
	}
	metrics.CacheResults.WithLabelValues("subscriptions", "miss").Inc()

	subs, err := s.repo.ListSubscriptions(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if genErr == nil {
		if err := s.cache.Set(ctx, key, listEntry{Generation: gen, Items: subs}, s.listTTL); err != nil {
			s.log.Warn("failed to cache subscriptions", slog.String("key", key), sl.Err(err))
		}
	}
	return subs, nil
}

// listEntry - список подписок в кэше вместе с поколением, при котором он прочитан.
type listEntry struct {
	Generation int64                 `json:"generation"`
	Items      []models.Subscription `json:"items"`
}

// Create проверяет запрос, при необходимости создаёт пользователя и сохраняет подписку.
func (s *Service) Create(ctx context.Context, principal models.Principal, req models.DummySubscription) (*models.Subscription, error) {
	const op = "subscription.Create"

	sub, err := s.parse(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = uuid.NewString()
	sub.UserID = user.ID

	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new subscription", slog.String("id", created.ID), slog.String("user_id", user.ID))
	metrics.SubscriptionsCreated.WithLabelValues(string(created.Category), string(created.BillingCycle)).Inc()

	s.afterChange(ctx, user.ID)
	if err := s.publisher.SubscriptionCreated(ctx, *created); err != nil {
		s.log.Warn("failed to publish subscription event", slog.String("id", created.ID), sl.Err(err))
	}
	return created, nil
}

// Summary возвращает метрики дашборда по подпискам пользователя.
func (s *Service) Summary(ctx context.Context, principal models.Principal) (models.Summary, error) {
	const op = "subscription.Summary"
	subs, err := s.List(ctx, principal)
	if err != nil {
		return models.Summary{}, fmt.Errorf("%s: %w", op, err)
	}
	return dashboard.Summarize(subs), nil
}

// Deactivate снимает признак активности с подписки пользователя.
func (s *Service) Deactivate(ctx context.Context, principal models.Principal, id string) (*models.Subscription, error) {
	const op = "subscription.Deactivate"

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, invalidInput("invalid subscription id"))
	}
	user, err := s.identity.Lookup(ctx, principal.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := s.repo.SetSubscriptionActive(ctx, user.ID, id, false)
	if errors.Is(err, storage.ErrSubscriptionNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deactivated subscription", slog.String("id", id))
	metrics.SubscriptionsDeactivated.Inc()

	s.afterChange(ctx, user.ID)
	if err := s.publisher.SubscriptionDeactivated(ctx, *sub); err != nil {
		s.log.Warn("failed to publish subscription event", slog.String("id", id), sl.Err(err))
	}
	return sub, nil
}

// afterChange сдвигает поколение списка и удаляет его из кэша.
// Запись, которую параллельный List сохранит после этого, будет со старым поколением.
func (s *Service) afterChange(ctx context.Context, userID string) {
	genKey := cache.SubscriptionsGenerationKey(userID)
	if _, err := s.cache.Bump(ctx, genKey); err != nil {
		s.log.Warn("failed to bump cache generation", slog.String("key", genKey), sl.Err(err))
	}
	key := cache.SubscriptionsKey(userID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) parse(req models.DummySubscription) (models.Subscription, error) {
	name := strings.TrimSpace(req.Name)
	// Нулевая стоимость считается неуказанной, как и пустая.
	if name == "" || req.Cost.Missing() || req.BillingCycle == "" || req.NextPayment == "" || req.Category == "" {
		return models.Subscription{}, invalidInput(MsgMissingRequiredFields)
	}

	cost, err := ParseCost(string(req.Cost))
	if err != nil {
		return models.Subscription{}, err
	}
	cycle := models.BillingCycle(req.BillingCycle)
	if !cycle.Valid() {
		return models.Subscription{}, invalidInput("unknown billing cycle %q", req.BillingCycle)
	}
	category := models.Category(req.Category)
	if !category.Valid() {
		return models.Subscription{}, invalidInput("unknown category %q", req.Category)
	}
	next, err := ParseDate(req.NextPayment)
	if err != nil {
		return models.Subscription{}, err
	}

	sub := models.Subscription{
		Name:         name,
		Cost:         cost,
		Currency:     s.currency,
		BillingCycle: cycle,
		NextPayment:  next,
		Category:     category,
		IsActive:     true,
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		sub.Description = &d
	}
	return sub, nil
}

// ParseCost разбирает стоимость без округления.
// Отрицательные и нечисловые значения отклоняются.
func ParseCost(raw string) (float64, error) {
	cost, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0, invalidInput("cost must be a number")
	}
	if cost < 0 {
		return 0, invalidInput("cost must not be negative")
	}
	return cost, nil
}

// ParseDate принимает дату в формате 2006-01-02 или RFC 3339 и возвращает
// полночь этого дня в UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, invalidInput("nextPayment must be a date (YYYY-MM-DD)")
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
