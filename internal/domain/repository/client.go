package repository

import "context"

const (
	ClientTypePublic       = "public"
	ClientTypeConfidential = "confidential"
)

// Client representa un cliente OAuth2 registrado.
// Este servicio solo lo lee; el alta/baja de clients es responsabilidad de un
// colaborador externo (admin API, seeds).
type Client struct {
	ID       string
	ClientID string // identificador público
	Name     string
	Type     string // "public" | "confidential"

	// Scopes permitidos para el client. Vacío significa "usa los scopes por
	// defecto del servidor" (se resuelve en el service layer).
	Scopes []string

	// GrantTypes restringe los grants que el client puede usar.
	// Vacío permite todos (backwards compatibility).
	GrantTypes []string

	// SecretHash es el digest SHA-256 (base64url) del client_secret.
	// Vacío para clients públicos.
	SecretHash string

	// AccessTokenTTL es el override por client, en segundos.
	// 0 usa el default del servidor.
	AccessTokenTTL int
}

// ClientRepository define operaciones de lectura sobre clients.
type ClientRepository interface {
	// Get obtiene un client por su client_id público.
	// Retorna ErrNotFound si no existe.
	Get(ctx context.Context, clientID string) (*Client, error)
}
