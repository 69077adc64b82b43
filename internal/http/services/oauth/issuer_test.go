package oauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	jwtx "github.com/dropDatabas3/littlejohn/internal/jwt"
	tokens "github.com/dropDatabas3/littlejohn/internal/security/token"
	storemem "github.com/dropDatabas3/littlejohn/internal/store/memory"
	"github.com/dropDatabas3/littlejohn/internal/validation"
)

func TestStoreTokenIssuer_OpaqueWithRefresh(t *testing.T) {
	store := storemem.New()
	issuer := &StoreTokenIssuer{Tokens: store, Format: TokenFormatOpaque, AccessTTL: time.Hour}

	in := IssueInput{
		Subject:      "user-1",
		Client:       &repository.Client{ClientID: "web-app"},
		Scopes:       validation.ScopeSet{"read"},
		IssueRefresh: true,
	}
	tok, err := issuer.FindOrCreate(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.NotEmpty(t, tok.RefreshToken)
	require.NotEqual(t, tok.Token, tok.RefreshToken)

	// segunda emisión equivalente reusa el mismo access token; el refresh
	// plano solo salió en la llamada que creó la fila
	again, err := issuer.FindOrCreate(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, tok.Token, again.Token)
	require.Empty(t, again.RefreshToken)
}

func TestStoreTokenIssuer_RefreshTokenStoredHashed(t *testing.T) {
	store := storemem.New()
	issuer := &StoreTokenIssuer{Tokens: store, AccessTTL: time.Hour}

	in := IssueInput{
		Subject:      "user-1",
		Client:       &repository.Client{ClientID: "web-app"},
		Scopes:       validation.ScopeSet{"read"},
		IssueRefresh: true,
	}
	tok, err := issuer.FindOrCreate(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, tok.RefreshToken)

	// el store guarda el digest, nunca el valor plano
	require.Equal(t, tokens.SHA256Base64URL(tok.RefreshToken), tok.RefreshTokenHash)
	require.NotEqual(t, tok.RefreshToken, tok.RefreshTokenHash)

	// un reuso devuelve la fila persistida: digest presente, plano ausente
	again, err := issuer.FindOrCreate(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, tok.RefreshTokenHash, again.RefreshTokenHash)
	require.Empty(t, again.RefreshToken)
}

func TestStoreTokenIssuer_ReuseIsOrderIndependent(t *testing.T) {
	store := storemem.New()
	issuer := &StoreTokenIssuer{Tokens: store, AccessTTL: time.Hour}
	client := &repository.Client{ClientID: "web-app"}

	a, err := issuer.FindOrCreate(context.Background(), IssueInput{
		Subject: "user-1", Client: client, Scopes: validation.ScopeSet{"read", "write"},
	})
	require.NoError(t, err)

	b, err := issuer.FindOrCreate(context.Background(), IssueInput{
		Subject: "user-1", Client: client, Scopes: validation.ScopeSet{"write", "read"},
	})
	require.NoError(t, err)
	require.Equal(t, a.Token, b.Token)
}

func TestStoreTokenIssuer_ClientTTLOverride(t *testing.T) {
	store := storemem.New()
	issuer := &StoreTokenIssuer{Tokens: store, AccessTTL: time.Hour}

	tok, err := issuer.FindOrCreate(context.Background(), IssueInput{
		Subject: "user-1",
		Client:  &repository.Client{ClientID: "short-lived", AccessTokenTTL: 60},
		Scopes:  validation.ScopeSet{"read"},
	})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Minute), tok.ExpiresAt, 5*time.Second)
}

func TestStoreTokenIssuer_JWTFormat(t *testing.T) {
	signer, err := jwtx.NewIssuer("littlejohn-test", "signing-secret")
	require.NoError(t, err)

	store := storemem.New()
	issuer := &StoreTokenIssuer{Tokens: store, Format: TokenFormatJWT, JWT: signer, AccessTTL: time.Hour}

	tok, err := issuer.FindOrCreate(context.Background(), IssueInput{
		Subject: "user-1",
		Client:  &repository.Client{ClientID: "web-app"},
		Scopes:  validation.ScopeSet{"read"},
	})
	require.NoError(t, err)

	claims, err := signer.Parse(tok.Token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims["sub"])
	require.Equal(t, "read", claims["scope"])
}

func TestStoreTokenIssuer_JWTFormatWithoutSigner(t *testing.T) {
	issuer := &StoreTokenIssuer{Tokens: storemem.New(), Format: TokenFormatJWT}
	_, err := issuer.FindOrCreate(context.Background(), IssueInput{
		Subject: "user-1",
		Client:  &repository.Client{ClientID: "web-app"},
	})
	require.Error(t, err)
}
