// Package store opens the repository backend selected by configuration.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/config"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository/mongo"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository/sqldb"
)

const indexTimeout = time.Minute

// CloseFunc releases the backend's connections.
type CloseFunc func() error

// Open connects to the configured database, prepares its schema (indexes for mongo,
// migrations for SQL) and returns the wired repositories.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*repository.Store, CloseFunc, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		db := client.Database(cfg.Name)

		indexCtx, cancel := context.WithTimeout(ctx, indexTimeout)
		defer cancel()
		if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		log.Info("mongodb connected", "database", cfg.Name, "transactions", cfg.Transactions)
		return mongo.NewStore(client, db, cfg.Transactions), func() error { return mongo.DisconnectDB(client) }, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := sqldb.Open(cfg.Driver, cfg.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		if err := sqldb.AutoMigrate(db); err != nil {
			_ = sqldb.Close(db)
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("sql database connected", "driver", cfg.Driver)
		return sqldb.NewStore(db), func() error { return sqldb.Close(db) }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
