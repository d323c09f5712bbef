package state

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StoreConfig selects and configures a backend.
type StoreConfig struct {
	Type     StoreType      `yaml:"type"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
}

// NewStore creates a Store for the configured backend. The database
// backend opens sqlite through the pure-Go driver; callers needing another
// dialector can build a GormStore directly with NewGormStore.
func NewStore(cfg StoreConfig) (Store, error) {
	switch cfg.Type {
	case StoreTypeMemory, "":
		return NewMemoryStore(), nil
	case StoreTypeRedis:
		return NewRedisStore(cfg.Redis)
	case StoreTypeDatabase:
		db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{
			Logger: logger.Discard,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return NewGormStore(db)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
