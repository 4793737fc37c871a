package dashboard

import (
	"context"
	"sync"

	"github.com/magabrotheeeer/subsense/internal/client"
	"github.com/magabrotheeeer/subsense/internal/models"
)

// API - операции HTTP API, которыми пользуются Board и Form.
type API interface {
	ListSubscriptions(ctx context.Context) client.Result[[]models.Subscription]
	CreateSubscription(ctx context.Context, req client.CreateRequest) client.Result[models.Subscription]
}

// Board хранит загруженный список подписок. Метрики пересчитываются
// при каждом вызове Metrics и нигде не кэшируются.
type Board struct {
	api API

	mu     sync.RWMutex
	subs   []models.Subscription
	err    error
	loaded bool
}

// NewBoard создаёт пустой Board.
func NewBoard(api API) *Board {
	return &Board{api: api}
}

// Refresh заново загружает список. При ошибке прежний список сохраняется,
// а ошибка доступна через Err до следующей успешной загрузки.
func (b *Board) Refresh(ctx context.Context) client.Result[[]models.Subscription] {
	res := b.api.ListSubscriptions(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !res.OK() {
		b.err = res.Err
		return res
	}
	b.subs = append([]models.Subscription(nil), res.Value...)
	b.err = nil
	b.loaded = true
	return res
}

// Add добавляет созданную подписку в конец локального списка.
func (b *Board) Add(sub models.Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, sub)
}

// Subscriptions возвращает копию текущего списка.
func (b *Board) Subscriptions() []models.Subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.Subscription, len(b.subs))
	copy(out, b.subs)
	return out
}

// Metrics считает метрики по текущему списку.
func (b *Board) Metrics() models.Summary {
	return Summarize(b.Subscriptions())
}

// Err возвращает ошибку последней загрузки.
func (b *Board) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Loaded сообщает, была ли хотя бы одна успешная загрузка. Позволяет отличить
// пустой список от списка, который не удалось получить.
func (b *Board) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}
