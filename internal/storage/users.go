package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subsense/internal/models"
)

// GetUserByExternalID возвращает пользователя по внешнему идентификатору провайдера.
func (s *Storage) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	const op = "storage.GetUserByExternalID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, external_id, email, created_at
			  FROM users
			  WHERE external_id = $1`
	var u models.User
	err := s.DB.QueryRowContext(ctx, query, externalID).Scan(&u.ID, &u.ExternalID, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя. Нарушение уникальности external_id
// возвращается как ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (id, external_id, email)
			  VALUES ($1, $2, $3)
			  RETURNING created_at`
	err := s.DB.QueryRowContext(ctx, query, user.ID, user.ExternalID, user.Email).Scan(&user.CreatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}
