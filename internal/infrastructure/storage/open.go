package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"CallbackNotifier/internal/config"
	"CallbackNotifier/internal/ports"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenMarkerStore builds the marker store selected by cfg. The returned
// closer releases any database handle.
func OpenMarkerStore(ctx context.Context, cfg config.MarkerConfig) (ports.MarkerStore, io.Closer, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileMarkerStore(nil, cfg.Path), nopCloser{}, nil
	case "sqlite", "postgres":
	default:
		return nil, nil, fmt.Errorf("unknown marker driver %q", cfg.Driver)
	}

	if cfg.DSN == "" {
		return nil, nil, fmt.Errorf("marker driver %s requires a dsn", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	store := NewSQLMarkerStore(db, cfg.Driver)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db, nil
}
