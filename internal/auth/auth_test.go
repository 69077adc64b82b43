package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cachemem "github.com/dropDatabas3/littlejohn/internal/cache/memory"
	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/security/password"
	tokens "github.com/dropDatabas3/littlejohn/internal/security/token"
	storemem "github.com/dropDatabas3/littlejohn/internal/store/memory"
)

var hashParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func seedUser(t *testing.T, s *storemem.Store, username, pass, status string) *repository.User {
	t.Helper()
	phc, err := password.Hash(hashParams, pass)
	require.NoError(t, err)
	u := &repository.User{ID: "u-" + username, Username: username, PasswordHash: phc, Status: status}
	s.SeedUser(u)
	return u
}

func TestPasswordAuthenticator(t *testing.T) {
	store := storemem.New()
	seedUser(t, store, "alice", "hunter22", repository.UserStatusActive)
	seedUser(t, store, "mallory", "pw", repository.UserStatusDisabled)

	a := NewPasswordAuthenticator(store)
	ctx := context.Background()

	sub, err := a.Authenticate(ctx, "alice", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "u-alice", sub)

	_, err = a.Authenticate(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = a.Authenticate(ctx, "nobody", "hunter22")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = a.Authenticate(ctx, "mallory", "pw")
	require.ErrorIs(t, err, ErrBadCredentials)
}

// countingClients envuelve el store contando lookups para verificar el cache.
type countingClients struct {
	inner repository.ClientRepository
	calls int
}

func (c *countingClients) Get(ctx context.Context, clientID string) (*repository.Client, error) {
	c.calls++
	return c.inner.Get(ctx, clientID)
}

func TestStoreClientLoader_SecretCheck(t *testing.T) {
	store := storemem.New()
	store.SeedClient(&repository.Client{
		ClientID:   "web-app",
		Type:       repository.ClientTypeConfidential,
		SecretHash: tokens.SHA256Base64URL("s3cret"),
		Scopes:     []string{"read"},
	})
	store.SeedClient(&repository.Client{
		ClientID: "mobile-app",
		Type:     repository.ClientTypePublic,
	})

	l := NewStoreClientLoader(store, nil, 0)
	ctx := context.Background()

	c, err := l.Load(ctx, "web-app", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "web-app", c.ClientID)

	_, err = l.Load(ctx, "web-app", "wrong")
	require.ErrorIs(t, err, ErrClientNotFound)

	_, err = l.Load(ctx, "ghost", "s3cret")
	require.ErrorIs(t, err, ErrClientNotFound)

	_, err = l.Load(ctx, "", "s3cret")
	require.ErrorIs(t, err, ErrClientNotFound)

	// público: el secret se ignora
	c, err = l.Load(ctx, "mobile-app", "")
	require.NoError(t, err)
	require.Equal(t, "mobile-app", c.ClientID)
}

func TestStoreClientLoader_CacheReadThrough(t *testing.T) {
	store := storemem.New()
	store.SeedClient(&repository.Client{ClientID: "mobile-app", Type: repository.ClientTypePublic})

	counting := &countingClients{inner: store}
	l := NewStoreClientLoader(counting, cachemem.New(time.Minute), time.Minute)
	ctx := context.Background()

	_, err := l.Load(ctx, "mobile-app", "")
	require.NoError(t, err)
	_, err = l.Load(ctx, "mobile-app", "")
	require.NoError(t, err)

	require.Equal(t, 1, counting.calls, "second load must come from cache")
}
