package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subsense/internal/models"
)

const subscriptionColumns = `id, user_id, name, cost::float8, currency, billing_cycle,
			      next_payment, category, description, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (models.Subscription, error) {
	var (
		sub         models.Subscription
		description sql.NullString
	)
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Cost, &sub.Currency, &sub.BillingCycle,
		&sub.NextPayment, &sub.Category, &description, &sub.IsActive, &sub.CreatedAt)
	if err != nil {
		return models.Subscription{}, err
	}
	if description.Valid {
		sub.Description = &description.String
	}
	return sub, nil
}

// CreateSubscription вставляет новую подписку и возвращает её с серверными полями.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_id, name, cost, currency, billing_cycle,
			      next_payment, category, description, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + subscriptionColumns
	row := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, sub.Name, sub.Cost, sub.Currency, sub.BillingCycle,
		sub.NextPayment, sub.Category, sub.Description, sub.IsActive)
	created, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// ListSubscriptions возвращает подписки пользователя, новые первыми.
// Для пользователя без подписок возвращается пустой срез, а не nil.
func (s *Storage) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetSubscriptionActive меняет признак активности подписки пользователя.
func (s *Storage) SetSubscriptionActive(ctx context.Context, userID, id string, active bool) (*models.Subscription, error) {
	const op = "storage.SetSubscriptionActive"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET is_active = $1
			  WHERE id = $2 AND user_id = $3
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, active, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}
