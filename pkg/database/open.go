package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-center-api/pkg/config"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// OpenDriver builds the collection driver selected by cfg.Store.Driver.
func OpenDriver(ctx context.Context, cfg *config.Config) (store.Driver, error) {
	switch cfg.Store.Driver {
	case "", config.StoreDriverFile:
		return store.NewFileDriver(cfg.Store.DataDir)
	case config.StoreDriverMemory:
		return store.NewMemoryDriver(), nil
	case config.StoreDriverSQLite:
		db, err := NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlDriver(ctx, db)
	case config.StoreDriverPostgres:
		db, err := NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return sqlDriver(ctx, db)
	case config.StoreDriverRedis:
		client, err := NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store.NewRedisDriver(client, cfg.Redis.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func sqlDriver(ctx context.Context, db *sqlx.DB) (store.Driver, error) {
	driver, err := store.NewSQLDriver(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return driver, nil
}
