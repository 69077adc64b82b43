package repository

import (
	"context"
	"time"
)

// AccessToken representa un access token emitido (con refresh token opcional).
// El valor del access token se guarda tal cual se entrega al client: el
// contrato de reuso del grant exige poder devolver el mismo valor en
// emisiones equivalentes. Del refresh token solo se persiste el digest
// SHA-256; el valor plano se entrega una única vez, en la emisión que creó
// la fila.
type AccessToken struct {
	ID               string
	Subject          string // resource owner (opaque)
	ClientID         string
	Token            string
	RefreshTokenHash string // digest SHA-256 base64url; vacío si no se emitió
	Scopes           []string
	ExpiresAt        time.Time
	CreatedAt        time.Time
	RevokedAt        *time.Time
}

// Valid reporta si el token sigue vigente en el instante dado.
func (t *AccessToken) Valid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// FindOrCreateAccessTokenInput contiene los datos para la emisión idempotente.
// Token y RefreshTokenHash son candidatos: si ya existe un token vigente para
// la misma tupla (Subject, ClientID, ScopeSig), el store devuelve el
// existente y descarta los candidatos.
type FindOrCreateAccessTokenInput struct {
	Subject          string
	ClientID         string
	Scopes           []string
	ScopeSig         string // firma canónica del scope set (orden-independiente)
	Token            string
	RefreshTokenHash string // digest del refresh token, nunca el valor plano
	TTLSeconds       int
}

// AccessTokenRepository define el contrato lookup-or-create del token issuer.
type AccessTokenRepository interface {
	// FindOrCreate devuelve un token vigente para (Subject, ClientID, ScopeSig)
	// si existe; si no, crea uno con los candidatos del input. La operación es
	// atómica: emisiones concurrentes para la misma tupla no deben producir
	// tokens vivos duplicados (unicidad garantizada por el backing store).
	FindOrCreate(ctx context.Context, input FindOrCreateAccessTokenInput) (*AccessToken, error)
}
