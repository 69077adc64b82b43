package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
)

// FindOrCreate emite de forma idempotente: un solo statement con upsert sobre
// el índice parcial único (subject, client_id, scope_sig) WHERE revoked_at IS
// NULL. Si la fila existente sigue vigente se conserva y se devuelve; si
// expiró, se reemplaza por los candidatos del input. Emisiones concurrentes
// para la misma tupla serializan en el índice, nunca duplican tokens vivos.
func (s *Store) FindOrCreate(ctx context.Context, input repository.FindOrCreateAccessTokenInput) (*repository.AccessToken, error) {
	const q = `
		INSERT INTO access_tokens
			(id, subject, client_id, scopes, scope_sig, token, refresh_token_hash, expires_at, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, NOW() + make_interval(secs => $8), NOW())
		ON CONFLICT (subject, client_id, scope_sig) WHERE revoked_at IS NULL
		DO UPDATE SET
			token              = CASE WHEN access_tokens.expires_at > NOW() THEN access_tokens.token              ELSE EXCLUDED.token              END,
			refresh_token_hash = CASE WHEN access_tokens.expires_at > NOW() THEN access_tokens.refresh_token_hash ELSE EXCLUDED.refresh_token_hash END,
			scopes             = CASE WHEN access_tokens.expires_at > NOW() THEN access_tokens.scopes             ELSE EXCLUDED.scopes             END,
			expires_at         = CASE WHEN access_tokens.expires_at > NOW() THEN access_tokens.expires_at         ELSE EXCLUDED.expires_at         END,
			created_at         = CASE WHEN access_tokens.expires_at > NOW() THEN access_tokens.created_at         ELSE EXCLUDED.created_at         END,
			id                 = CASE WHEN access_tokens.expires_at > NOW() THEN access_tokens.id                 ELSE EXCLUDED.id                 END
		RETURNING id, subject, client_id, scopes, token, COALESCE(refresh_token_hash, ''), expires_at, created_at`

	var t repository.AccessToken
	err := s.pool.QueryRow(ctx, q,
		uuid.NewString(), input.Subject, input.ClientID, input.Scopes, input.ScopeSig,
		input.Token, nullIfEmpty(input.RefreshTokenHash), input.TTLSeconds,
	).Scan(
		&t.ID, &t.Subject, &t.ClientID, &t.Scopes, &t.Token, &t.RefreshTokenHash,
		&t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("pg: find-or-create access token: %w", err)
	}
	return &t, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
