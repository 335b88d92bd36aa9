// Package bootstrap wires config into a ready tracker.Service. Shared by the
// server, importer and MCP binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/claude/fitstreak/internal/catalog"
	"github.com/claude/fitstreak/internal/config"
	"github.com/claude/fitstreak/internal/docstore"
	"github.com/claude/fitstreak/internal/recovery"
	"github.com/claude/fitstreak/internal/storage"
	"github.com/claude/fitstreak/internal/tracker"
)

// OpenStore connects the configured store. For postgres, migrations from
// migrationsPath are applied first and, when reg is non-nil, pool stats are
// exported to it. The returned func releases the store.
func OpenStore(ctx context.Context, cfg *config.Config, migrationsPath string, reg prometheus.Registerer, log *slog.Logger) (tracker.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, migrationsPath); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting database: %w", err)
		}
		log.Info("database connected")
		if reg != nil {
			collector := pgxpoolprometheus.NewCollector(db.Pool, map[string]string{"db_name": cfg.Database.Name})
			if err := reg.Register(collector); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("registering pool metrics: %w", err)
			}
		}
		return db, db.Close, nil

	case config.DriverFirestore:
		fs, err := docstore.New(ctx, cfg.Store.FirestoreProject)
		if err != nil {
			return nil, nil, err
		}
		log.Info("firestore connected", "project", cfg.Store.FirestoreProject)
		return fs, func() {
			if err := fs.Close(); err != nil {
				log.Warn("closing firestore", "error", err)
			}
		}, nil

	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on exit")
		return tracker.NewMemStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// NewService loads the catalog and recovery datasets named in cfg (embedded
// defaults when unset) and builds the service over store.
func NewService(cfg *config.Config, store tracker.Store, log *slog.Logger) (*tracker.Service, error) {
	cat, err := catalog.LoadFile(cfg.Catalog.ExercisesPath)
	if err != nil {
		return nil, fmt.Errorf("loading exercise catalog: %w", err)
	}
	policy, err := recovery.LoadFile(cfg.Catalog.RecoveryPath)
	if err != nil {
		return nil, fmt.Errorf("loading recovery policy: %w", err)
	}
	log.Info("datasets loaded", "exercises", cat.Len(), "muscle_groups", len(policy.Groups()))

	return tracker.New(store, cat, policy, tracker.CacheConfig{
		SizeMB:     cfg.Cache.SizeMB,
		TTLSeconds: cfg.Cache.TTLSeconds,
	}, log), nil
}
