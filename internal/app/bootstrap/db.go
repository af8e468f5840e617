// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/congregate/internal/app/system/indexes"
	"github.com/dalemusser/congregate/internal/app/system/seeding"
	"github.com/dalemusser/congregate/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB.
//
// WAFFLE calls this after configuration is loaded but before
// EnsureSchema and Startup. The returned DBDeps is handed to all later
// lifecycle hooks.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
	}, nil
}

// EnsureSchema sets up collections, validators, and indexes, then seeds
// default data.
//
// This runs after ConnectDB succeeds but before Startup and before the
// HTTP handler is built. The context has a timeout based on
// coreCfg.IndexBootTimeout, so long-running work should respect
// cancellation.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	// Ensure collections exist and attach JSON-Schema validators.
	// This runs first so indexes can be created on existing collections.
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	if appCfg.SeedDefaults {
		logger.Info("seeding default data")
		if err := seeding.SeedAll(ctx, db, logger); err != nil {
			logger.Error("failed to seed default data", zap.Error(err))
			return err
		}
	}

	logger.Info("database schema ensured successfully")
	return nil
}
