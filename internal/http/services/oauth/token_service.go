// Package oauth contiene el service del token endpoint: el grant de
// resource owner password credentials (RFC 6749 §4.3).
package oauth

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/validation"
)

// GrantRequest is the raw parameter map of a token request, as parsed by the
// transport layer. Treated as immutable by the pipeline.
type GrantRequest map[string]string

// Get returns the value for key, or "" when absent.
func (r GrantRequest) Get(key string) string { return r[key] }

// TokenResponse is the standard OAuth2 token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// GrantError is the structured error a failed grant surfaces: OAuth2 error
// code, human description and HTTP status. Exactly one GrantError (or one
// TokenResponse, never both) leaves the pipeline.
type GrantError struct {
	Code        string
	Description string
	Status      int
}

func (e *GrantError) Error() string { return e.Code + ": " + e.Description }

func errUnsupportedGrantType() *GrantError {
	return &GrantError{Code: "unsupported_grant_type", Description: "Grant type not supported", Status: http.StatusBadRequest}
}

func errInvalidRequest(desc string) *GrantError {
	return &GrantError{Code: "invalid_request", Description: desc, Status: http.StatusBadRequest}
}

func errUnauthorized(desc string) *GrantError {
	return &GrantError{Code: "unauthorized", Description: desc, Status: http.StatusUnauthorized}
}

func errUnauthorizedClient(desc string) *GrantError {
	return &GrantError{Code: "unauthorized_client", Description: desc, Status: http.StatusUnauthorized}
}

func errInvalidScope(desc string) *GrantError {
	return &GrantError{Code: "invalid_scope", Description: desc, Status: http.StatusBadRequest}
}

func errServerError() *GrantError {
	return &GrantError{Code: "server_error", Description: "An unexpected error occurred", Status: http.StatusInternalServerError}
}

// ─── Collaborator interfaces (injected once at startup) ───

// ResourceOwnerAuthenticator turns raw credentials into an opaque subject
// identifier. This core never inspects the subject beyond passing it to the
// issuer.
type ResourceOwnerAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (subject string, err error)
}

// ClientLoader resolves and authenticates the requesting client.
type ClientLoader interface {
	Load(ctx context.Context, clientID, clientSecret string) (*repository.Client, error)
}

// IssueInput is the tuple the token issuer works from.
type IssueInput struct {
	Subject      string
	Client       *repository.Client
	Scopes       validation.ScopeSet
	IssueRefresh bool
}

// IssuedToken is the stored record plus the raw refresh token value. The
// store only keeps the refresh token's SHA-256 digest, so RefreshToken is
// populated exactly once: on the call that created the row. A reused token
// comes back with RefreshToken empty.
type IssuedToken struct {
	*repository.AccessToken
	RefreshToken string
}

// TokenIssuer finds a live, scope-equivalent token for (Subject, Client) or
// creates one atomically.
type TokenIssuer interface {
	FindOrCreate(ctx context.Context, in IssueInput) (*IssuedToken, error)
}

// TokenService handles OAuth2 token endpoint logic.
type TokenService interface {
	// PasswordGrant handles grant_type=password.
	PasswordGrant(ctx context.Context, req GrantRequest) (*TokenResponse, *GrantError)
}

// Deps contains dependencies for the token service. Authenticator nil means
// the password strategy is not configured: every grant short-circuits with
// unsupported_grant_type before touching anything else.
type Deps struct {
	Authenticator      ResourceOwnerAuthenticator
	Clients            ClientLoader
	Issuer             TokenIssuer
	DefaultScopes      validation.ScopeSet
	IssueRefreshTokens bool
}

// NewTokenService creates a new TokenService.
func NewTokenService(d Deps) TokenService {
	return &tokenService{
		authenticator: d.Authenticator,
		clients:       d.Clients,
		issuer:        d.Issuer,
		defaultScopes: d.DefaultScopes,
		issueRefresh:  d.IssueRefreshTokens,
	}
}
