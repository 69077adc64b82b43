package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
)

func (s *Store) Get(ctx context.Context, clientID string) (*repository.Client, error) {
	const q = `
		SELECT id, client_id, name, client_type, scopes, grant_types,
		       COALESCE(secret_hash, ''), access_token_ttl
		FROM clients
		WHERE client_id = $1`

	var c repository.Client
	err := s.pool.QueryRow(ctx, q, clientID).Scan(
		&c.ID, &c.ClientID, &c.Name, &c.Type, &c.Scopes, &c.GrantTypes,
		&c.SecretHash, &c.AccessTokenTTL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
