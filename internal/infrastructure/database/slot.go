// internal/infrastructure/database/slot.go
package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

// OpenSlot builds the durable slot selected by STORAGE_DRIVER
func OpenSlot(cfg *config.Config, log logrus.FieldLogger) (storage.Slot, error) {
	log = log.WithField("driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn("Using in-memory slot, the cart will not survive a restart")
		return storage.NewMemorySlot(), nil

	case config.StorageDriverFile:
		slot, err := storage.NewFileSlot(cfg.Storage.FilePath)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.Storage.FilePath).Info("File slot ready")
		return slot, nil

	case config.StorageDriverRedis:
		client, err := redis.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}
		return client, nil

	case config.StorageDriverPostgres:
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}

		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("Index creation failed")
		}
		return postgres.NewSlot(db), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
