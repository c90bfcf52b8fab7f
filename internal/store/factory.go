package store

import (
	"context"
	"fmt"

	"churchdirectory/internal/config"
)

// NewStore creates the directory store backend named by the configuration.
func NewStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil

	case "sqlite", "":
		return NewSQLiteStore(cfg.SQLitePath)

	case "postgres":
		if err := Migrate(cfg.Postgres.URL()); err != nil {
			return nil, err
		}
		return NewPostgresStore(ctx, cfg.Postgres)

	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
