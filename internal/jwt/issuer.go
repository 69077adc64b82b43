// Package jwt emite access tokens con formato JWT (HS256) como alternativa a
// los tokens opacos. El valor emitido se persiste igual que un token opaco:
// el contrato de reuso del issuer devuelve el valor existente, no re-firma.
package jwt

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer firma access tokens HS256 con un secret compartido.
type Issuer struct {
	Iss    string
	secret []byte
}

// NewIssuer crea un Issuer. El secret no puede estar vacío.
func NewIssuer(iss, secret string) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt: empty signing secret")
	}
	if iss == "" {
		iss = "littlejohn"
	}
	return &Issuer{Iss: iss, secret: []byte(secret)}, nil
}

// IssueAccess firma un access token para (subject, client) con los scopes
// dados. Claims: iss, sub, aud, exp, iat, jti, scope (string), scp (array),
// client_id.
func (i *Issuer) IssueAccess(subject, clientID string, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":       i.Iss,
		"sub":       subject,
		"aud":       clientID,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
		"jti":       uuid.NewString(),
		"client_id": clientID,
		"scope":     strings.Join(scopes, " "),
		"scp":       scopes,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Parse valida firma y expiración y devuelve los claims.
func (i *Issuer) Parse(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("jwt: unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(i.Iss), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("jwt: invalid token")
	}
	return claims, nil
}
