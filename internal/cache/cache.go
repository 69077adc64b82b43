// Package cache provee un cache simple de bytes con backends de memoria
// (desarrollo/testing) y redis (producción). Se usa para cachear lookups de
// clients en el hot path del token endpoint.
package cache

import "time"

// Cache define las operaciones mínimas de cache.
type Cache interface {
	Get(k string) ([]byte, bool)
	Set(k string, v []byte, ttl time.Duration)
	Delete(k string)
}
