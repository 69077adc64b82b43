package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/cache"
	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	tokens "github.com/dropDatabas3/littlejohn/internal/security/token"
)

// ErrClientNotFound covers both unknown client_id and failed secret check.
// A single reason keeps the endpoint from acting as a client_id oracle.
var ErrClientNotFound = errors.New("client authentication failed")

// StoreClientLoader resolves and authenticates clients from the client store,
// with a read-through cache in front (the token endpoint hits this on every
// grant).
type StoreClientLoader struct {
	clients  repository.ClientRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewStoreClientLoader(clients repository.ClientRepository, c cache.Cache, ttl time.Duration) *StoreClientLoader {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StoreClientLoader{clients: clients, cache: c, cacheTTL: ttl}
}

// Load resolves client_id and verifies the secret for confidential clients.
// Public clients carry no secret; whatever was sent is ignored.
func (l *StoreClientLoader) Load(ctx context.Context, clientID, clientSecret string) (*repository.Client, error) {
	log := logger.From(ctx).With(logger.Layer("auth"), logger.Op("auth.client"), logger.ClientID(clientID))

	if clientID == "" {
		return nil, ErrClientNotFound
	}

	c, err := l.lookup(ctx, clientID)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("client lookup failed", logger.Err(err))
		}
		return nil, ErrClientNotFound
	}

	if c.Type == repository.ClientTypeConfidential {
		if c.SecretHash == "" || !tokens.ConstantTimeEq(c.SecretHash, tokens.SHA256Base64URL(clientSecret)) {
			log.Warn("client secret mismatch")
			return nil, ErrClientNotFound
		}
	}
	return c, nil
}

func (l *StoreClientLoader) lookup(ctx context.Context, clientID string) (*repository.Client, error) {
	key := "client:" + clientID
	if l.cache != nil {
		if b, ok := l.cache.Get(key); ok {
			var c repository.Client
			if json.Unmarshal(b, &c) == nil {
				return &c, nil
			}
			l.cache.Delete(key)
		}
	}

	c, err := l.clients.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if b, err := json.Marshal(c); err == nil {
			l.cache.Set(key, b, l.cacheTTL)
		}
	}
	return c, nil
}
