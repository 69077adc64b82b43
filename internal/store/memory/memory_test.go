package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
)

func input(token string) repository.FindOrCreateAccessTokenInput {
	return repository.FindOrCreateAccessTokenInput{
		Subject:    "user-1",
		ClientID:   "web-app",
		Scopes:     []string{"read", "write"},
		ScopeSig:   "read write",
		Token:      token,
		TTLSeconds: 3600,
	}
}

func TestFindOrCreate_ReusesLiveToken(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.FindOrCreate(ctx, input("tok-a"))
	require.NoError(t, err)
	require.Equal(t, "tok-a", first.Token)

	// segundo intento con candidato distinto: debe devolver el existente
	second, err := s.FindOrCreate(ctx, input("tok-b"))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "tok-a", second.Token)
}

func TestFindOrCreate_ExpiredTokenIsReplaced(t *testing.T) {
	s := New()
	ctx := context.Background()

	current := time.Now()
	s.SetClock(func() time.Time { return current })

	first, err := s.FindOrCreate(ctx, input("tok-a"))
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)

	second, err := s.FindOrCreate(ctx, input("tok-b"))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, "tok-b", second.Token)
}

func TestFindOrCreate_DifferentScopesCreateDifferentTokens(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.FindOrCreate(ctx, input("tok-a"))
	require.NoError(t, err)

	in := input("tok-b")
	in.Scopes = []string{"read"}
	in.ScopeSig = "read"
	b, err := s.FindOrCreate(ctx, in)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}

func TestFindOrCreate_ConcurrentIssuance(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 32
	results := make([]*repository.AccessToken, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.FindOrCreate(ctx, input("tok-candidate"))
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}

	// todas las goroutines deben ver el mismo token vivo
	for i := 1; i < n; i++ {
		require.Equal(t, results[0].ID, results[i].ID)
		require.Equal(t, results[0].Token, results[i].Token)
	}
}

func TestClientAndUserLookup(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)

	s.SeedClient(&repository.Client{ClientID: "web-app", Scopes: []string{"read"}})
	c, err := s.Get(ctx, "web-app")
	require.NoError(t, err)
	require.Equal(t, "web-app", c.ClientID)

	_, err = s.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)

	s.SeedUser(&repository.User{ID: "u1", Username: "alice"})
	u, err := s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
}
