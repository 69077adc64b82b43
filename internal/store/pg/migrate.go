package pg

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
)

// Migrate aplica los archivos .sql embebidos en orden lexicográfico.
// Los statements son idempotentes (CREATE ... IF NOT EXISTS), así que se
// puede correr en cada arranque.
func (s *Store) Migrate(ctx context.Context, fsys fs.FS) error {
	entries, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("pg: list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("pg: read migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("pg: apply migration %s: %w", name, err)
		}
	}
	return nil
}
