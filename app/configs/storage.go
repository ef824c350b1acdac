package configs

import (
	"fmt"

	"github.com/Rakhulsr/go-carestore/app/models/migrations"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	storageKeyPrefix = "carestore:storage:"
	catalogKeyPrefix = "carestore:catalog:"
)

// OpenStorage builds the browser storage backend named by STORAGE_DRIVER.
// SQL backends are migrated on open. redisClient may be nil unless the
// redis driver is selected.
func OpenStorage(env ENV, redisClient *redis.Client) (repositories.StorageRepository, error) {
	switch env.StorageDriver {
	case DriverMemory:
		log.Warn().Msg("OpenStorage: memory storage selected, carts are lost on restart")
		return repositories.NewMemoryStorageRepository(), nil
	case DriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis storage selected but no redis client configured")
		}
		return repositories.NewRedisStorageRepository(redisClient, storageKeyPrefix, 0), nil
	case DriverSQLite, DriverMySQL, "":
		db, err := OpenConnection(env)
		if err != nil {
			return nil, err
		}
		if err := migrations.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate storage: %w", err)
		}
		return repositories.NewStorageRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", env.StorageDriver)
	}
}

// NewCatalogCache returns a redis cache when a TTL is configured.
func NewCatalogCache(env ENV, redisClient *redis.Client) repositories.CatalogCache {
	if env.CatalogCacheTTL <= 0 || redisClient == nil {
		return repositories.NewNoopCatalogCache()
	}
	return repositories.NewRedisCatalogCache(redisClient, catalogKeyPrefix, env.CatalogCacheTTL)
}
