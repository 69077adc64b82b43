package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
)

func (s *Store) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	// username o email, como el login del resto de la plataforma
	const q = `
		SELECT id, username, email, COALESCE(password_hash, ''), status, created_at
		FROM users
		WHERE username = $1 OR email = $1`

	var u repository.User
	err := s.pool.QueryRow(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
