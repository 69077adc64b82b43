package repository

import (
	"context"
	"time"
)

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User representa un resource owner con credenciales locales.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // PHC argon2id
	Status       string // "active" | "disabled"
	CreatedAt    time.Time
}

// UserRepository define operaciones de lectura sobre usuarios.
type UserRepository interface {
	// GetByUsername busca un usuario por username (o email).
	// Retorna ErrNotFound si no existe.
	GetByUsername(ctx context.Context, username string) (*User, error)
}
