package repository

import "errors"

// ErrNotFound indica que el recurso solicitado no existe.
var ErrNotFound = errors.New("not found")

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
