package oauth

import (
	"context"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/validation"
)

// tokenService implements TokenService.
type tokenService struct {
	authenticator ResourceOwnerAuthenticator
	clients       ClientLoader
	issuer        TokenIssuer
	defaultScopes validation.ScopeSet
	issueRefresh  bool
}

// grantContext is the single accumulator threaded through every stage.
// Once err is set, every later stage becomes a no-op, so stage order alone
// determines which of several problems gets reported.
type grantContext struct {
	req GrantRequest

	username string
	password string

	subject      string
	client       *repository.Client
	clientScopes validation.ScopeSet // client's allowed set, after server-default resolution
	scopes       validation.ScopeSet // effective requested scopes
	token        *IssuedToken

	err *GrantError
}

type stage func(ctx context.Context, gc *grantContext)

// PasswordGrant handles grant_type=password: authenticate the resource owner,
// authenticate the client, resolve and validate scopes, then find-or-create
// the access token.
func (s *tokenService) PasswordGrant(ctx context.Context, req GrantRequest) (*TokenResponse, *GrantError) {
	gc := &grantContext{req: req}

	stages := []stage{
		s.resolveStrategy,
		s.readOwnerCredentials,
		s.authenticateOwner,
		s.loadClient,
		s.resolveScopes,
		s.validateScopes,
		s.issueToken,
	}
	for _, run := range stages {
		run(ctx, gc)
	}
	return s.respond(ctx, gc)
}

// resolveStrategy runs first: without a configured authenticator the grant
// type is effectively unsupported, regardless of anything else in the request.
func (s *tokenService) resolveStrategy(_ context.Context, gc *grantContext) {
	if gc.err != nil {
		return
	}
	if s.authenticator == nil {
		gc.err = errUnsupportedGrantType()
	}
}

func (s *tokenService) readOwnerCredentials(_ context.Context, gc *grantContext) {
	if gc.err != nil {
		return
	}
	gc.username = gc.req.Get("username")
	gc.password = gc.req.Get("password")
	if gc.username == "" || gc.password == "" {
		gc.err = errInvalidRequest("Missing required parameter: username and password")
	}
}

func (s *tokenService) authenticateOwner(ctx context.Context, gc *grantContext) {
	if gc.err != nil {
		return
	}
	subject, err := s.authenticator.Authenticate(ctx, gc.username, gc.password)
	if err != nil {
		gc.err = errUnauthorized(err.Error())
		return
	}
	gc.subject = subject
}

// loadClient runs strictly after owner authentication; the loader is called
// exactly once per grant attempt.
func (s *tokenService) loadClient(ctx context.Context, gc *grantContext) {
	if gc.err != nil {
		return
	}
	client, err := s.clients.Load(ctx, gc.req.Get("client_id"), gc.req.Get("client_secret"))
	if err != nil {
		gc.err = errUnauthorized(err.Error())
		return
	}
	if !grantTypeAllowed(client, "password") {
		gc.err = errUnauthorizedClient("Client not authorized for this grant type")
		return
	}
	gc.client = client
}

// resolveScopes applies the two defaulting rules: the client's own empty
// scope list falls back to the server defaults, and a request without an
// explicit scope falls back to the client's (resolved) allowed set.
func (s *tokenService) resolveScopes(_ context.Context, gc *grantContext) {
	if gc.err != nil {
		return
	}
	gc.clientScopes = validation.ScopeSet(gc.client.Scopes).DefaultTo(s.defaultScopes)
	gc.scopes = validation.ParseScopes(gc.req.Get("scope")).DefaultTo(gc.clientScopes)
}

func (s *tokenService) validateScopes(_ context.Context, gc *grantContext) {
	if gc.err != nil {
		return
	}
	for _, name := range gc.scopes {
		if !validation.ValidScopeName(name) {
			gc.err = errInvalidScope("Malformed scope: " + name)
			return
		}
	}
	if !gc.clientScopes.Contains(gc.scopes) {
		gc.err = errInvalidScope("Requested scope exceeds the client's allowed scopes")
	}
}

func (s *tokenService) issueToken(ctx context.Context, gc *grantContext) {
	if gc.err != nil {
		return
	}
	tok, err := s.issuer.FindOrCreate(ctx, IssueInput{
		Subject:      gc.subject,
		Client:       gc.client,
		Scopes:       gc.scopes,
		IssueRefresh: s.issueRefresh,
	})
	if err != nil {
		logger.From(ctx).Error("token issuance failed",
			logger.Layer("service"), logger.Op("oauth.token.password"), logger.Err(err))
		gc.err = errServerError()
		return
	}
	gc.token = tok
}

// respond formats the terminal context: exactly one of the two shapes.
func (s *tokenService) respond(ctx context.Context, gc *grantContext) (*TokenResponse, *GrantError) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.token.password"))

	if gc.err != nil {
		log.Warn("password grant rejected", logger.String("error", gc.err.Code))
		return nil, gc.err
	}

	log.Info("password grant issued",
		logger.UserID(gc.subject),
		logger.ClientID(gc.client.ClientID),
		logger.Scope(gc.scopes.String()),
	)
	return &TokenResponse{
		AccessToken:  gc.token.Token,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(gc.token.ExpiresAt).Seconds()),
		RefreshToken: gc.token.RefreshToken,
		Scope:        gc.scopes.String(),
	}, nil
}

// grantTypeAllowed checks the client's grant allowlist.
// An empty list allows all (backwards compatibility).
func grantTypeAllowed(client *repository.Client, grantType string) bool {
	if len(client.GrantTypes) == 0 {
		return true
	}
	for _, g := range client.GrantTypes {
		if g == grantType {
			return true
		}
	}
	return false
}
