// Package memory implementa los repositorios de dominio en memoria.
// Pensado para desarrollo y tests; en producción se usa el driver postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
)

type Store struct {
	mu      sync.RWMutex
	clients map[string]*repository.Client     // client_id -> client
	users   map[string]*repository.User       // username -> user
	tokens  map[string]*repository.AccessToken // subject|client_id|scope_sig -> token

	// sf colapsa emisiones concurrentes para la misma tupla en una sola
	// creación; el mutex garantiza la atomicidad del lookup-or-create.
	sf singleflight.Group

	// now es inyectable para tests de expiración.
	now func() time.Time
}

func New() *Store {
	return &Store{
		clients: make(map[string]*repository.Client),
		users:   make(map[string]*repository.User),
		tokens:  make(map[string]*repository.AccessToken),
		now:     time.Now,
	}
}

// SetClock reemplaza la fuente de tiempo (solo tests).
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// ─── seeds ───

func (s *Store) SeedClient(c *repository.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.clients[c.ClientID] = &cp
}

func (s *Store) SeedUser(u *repository.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.Username] = &cp
}

// ─── repository.ClientRepository ───

func (s *Store) Get(_ context.Context, clientID string) (*repository.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ─── repository.UserRepository ───

func (s *Store) GetByUsername(_ context.Context, username string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	// mismo contrato que el driver postgres: username o email
	for _, u := range s.users {
		if u.Email != "" && u.Email == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ─── repository.AccessTokenRepository ───

func (s *Store) FindOrCreate(_ context.Context, input repository.FindOrCreateAccessTokenInput) (*repository.AccessToken, error) {
	key := input.Subject + "|" + input.ClientID + "|" + input.ScopeSig

	v, err, _ := s.sf.Do(key, func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		now := s.now()
		if existing, ok := s.tokens[key]; ok && existing.Valid(now) {
			cp := *existing
			return &cp, nil
		}

		tok := &repository.AccessToken{
			ID:               uuid.NewString(),
			Subject:          input.Subject,
			ClientID:         input.ClientID,
			Token:            input.Token,
			RefreshTokenHash: input.RefreshTokenHash,
			Scopes:           append([]string(nil), input.Scopes...),
			ExpiresAt:        now.Add(time.Duration(input.TTLSeconds) * time.Second),
			CreatedAt:        now,
		}
		s.tokens[key] = tok
		cp := *tok
		return &cp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*repository.AccessToken), nil
}
