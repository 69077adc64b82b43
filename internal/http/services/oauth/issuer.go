package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	jwtx "github.com/dropDatabas3/littlejohn/internal/jwt"
	tokens "github.com/dropDatabas3/littlejohn/internal/security/token"
)

const (
	TokenFormatOpaque = "opaque"
	TokenFormatJWT    = "jwt"
)

// StoreTokenIssuer implements TokenIssuer on top of the access token store.
// It generates candidate token values and delegates the atomic
// lookup-or-create to the repository; when a live token already exists the
// candidates are discarded and the stored values come back unchanged.
type StoreTokenIssuer struct {
	Tokens    repository.AccessTokenRepository
	Format    string       // TokenFormatOpaque | TokenFormatJWT
	JWT       *jwtx.Issuer // required when Format == TokenFormatJWT
	AccessTTL time.Duration
}

func (i *StoreTokenIssuer) FindOrCreate(ctx context.Context, in IssueInput) (*IssuedToken, error) {
	ttl := i.AccessTTL
	if in.Client.AccessTokenTTL > 0 {
		ttl = time.Duration(in.Client.AccessTokenTTL) * time.Second
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	access, err := i.generateAccess(in, ttl)
	if err != nil {
		return nil, err
	}

	var refresh, refreshHash string
	if in.IssueRefresh {
		refresh, err = tokens.GenerateOpaqueToken(32)
		if err != nil {
			return nil, err
		}
		refreshHash = tokens.SHA256Base64URL(refresh)
	}

	tok, err := i.Tokens.FindOrCreate(ctx, repository.FindOrCreateAccessTokenInput{
		Subject:          in.Subject,
		ClientID:         in.Client.ClientID,
		Scopes:           in.Scopes,
		ScopeSig:         in.Scopes.Signature(),
		Token:            access,
		RefreshTokenHash: refreshHash,
		TTLSeconds:       int(ttl.Seconds()),
	})
	if err != nil {
		return nil, err
	}

	// El candidato de access token es único por llamada; si el store lo
	// devolvió, esta llamada creó la fila y puede entregar el refresh plano.
	// En un reuso el valor plano ya no existe: solo quedó su digest.
	issued := &IssuedToken{AccessToken: tok}
	if tok.Token == access && in.IssueRefresh {
		issued.RefreshToken = refresh
	}
	return issued, nil
}

func (i *StoreTokenIssuer) generateAccess(in IssueInput, ttl time.Duration) (string, error) {
	switch i.Format {
	case "", TokenFormatOpaque:
		return tokens.GenerateOpaqueToken(32)
	case TokenFormatJWT:
		if i.JWT == nil {
			return "", fmt.Errorf("oauth: jwt token format configured without issuer")
		}
		return i.JWT.IssueAccess(in.Subject, in.Client.ClientID, in.Scopes, ttl)
	default:
		return "", fmt.Errorf("oauth: unknown token format %q", i.Format)
	}
}
