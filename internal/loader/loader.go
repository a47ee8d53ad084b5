// Package loader produces the corpus for the registry engine: an ordered
// sequence of record lines from a file, a Postgres table, or a SQLite
// snapshot. The engine only requires that the sequence be stably ordered so
// record positions stay meaningful until the next reload.
package loader

import (
	"context"
	"fmt"

	"github.com/civic-records/registry-search/pkg/config"
)

// Loader loads the full corpus. Load is called once at startup and again on
// every reload; each call must return the records in the same stable order.
type Loader interface {
	Load(ctx context.Context) ([]string, error)
}

// FromConfig selects a loader based on the corpus configuration.
func FromConfig(cfg config.CorpusConfig, pg config.PostgresConfig) (Loader, error) {
	switch cfg.Source {
	case "file", "":
		return NewFileLoader(cfg.Path), nil
	case "postgres":
		return NewPostgresLoader(pg, cfg.Table, cfg.Column, cfg.OrderBy), nil
	case "sqlite":
		return NewSQLiteLoader(cfg.Path, cfg.Table, cfg.Column, cfg.OrderBy), nil
	default:
		return nil, fmt.Errorf("unknown corpus source %q", cfg.Source)
	}
}
