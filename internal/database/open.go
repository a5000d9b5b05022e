package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgard/capbot/internal/config"
)

// Open builds the Store selected by cfg.Driver, fronted by the caption cache.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		store Store
		err   error
	)

	switch cfg.Driver {
	case "sqlite", "":
		db, dbErr := OpenSQLite(cfg.Path, logger)
		if dbErr != nil {
			return nil, dbErr
		}
		store = NewSQLStore(db, logger)
	case "mongo":
		store, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	cached, err := NewCachedStore(store, cfg.CaptionCacheSize)
	if err != nil {
		if closeErr := store.Close(ctx); closeErr != nil {
			logger.Error("Error closing store after cache failure", "error", closeErr)
		}
		return nil, err
	}
	return cached, nil
}
