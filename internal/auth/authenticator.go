// Package auth contains the store-backed implementations of the collaborator
// interfaces the token service depends on: the resource owner authenticator
// and the client loader. The service layer only sees the interfaces; swapping
// these for an LDAP or SSO-backed verifier is a wiring change in main.
package auth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/security/password"
)

// ErrBadCredentials is the uniform rejection for any owner-auth failure.
// One reason for unknown user, wrong password and disabled account alike,
// to avoid user enumeration.
var ErrBadCredentials = errors.New("invalid username or password")

// PasswordAuthenticator verifies resource owner credentials against the user
// store using argon2id.
type PasswordAuthenticator struct {
	users repository.UserRepository
}

func NewPasswordAuthenticator(users repository.UserRepository) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users}
}

// Authenticate returns the opaque subject identifier for valid credentials.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, pass string) (string, error) {
	log := logger.From(ctx).With(logger.Layer("auth"), logger.Op("auth.password"))

	u, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("user lookup failed", logger.Err(err))
		}
		return "", ErrBadCredentials
	}
	if u.Status != repository.UserStatusActive {
		log.Warn("login attempt for inactive user", logger.UserID(u.ID))
		return "", ErrBadCredentials
	}
	if u.PasswordHash == "" || !password.Verify(pass, u.PasswordHash) {
		return "", ErrBadCredentials
	}
	return u.ID, nil
}
