package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageRepository is a per-browser key-value store. Writes are
// last-write-wins; no locking spans requests.
type StorageRepository interface {
	GetItem(ctx context.Context, browserID, key string) (string, bool, error)
	SetItem(ctx context.Context, browserID, key, value string) error
	RemoveItem(ctx context.Context, browserID, key string) error
	Clear(ctx context.Context, browserID string) error
}

type storageRepository struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) StorageRepository {
	return &storageRepository{db}
}

func (r *storageRepository) GetItem(ctx context.Context, browserID, key string) (string, bool, error) {
	var entry models.StorageEntry
	err := r.db.WithContext(ctx).
		Where(&models.StorageEntry{BrowserID: browserID, Key: key}).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get storage item %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (r *storageRepository) SetItem(ctx context.Context, browserID, key, value string) error {
	entry := models.StorageEntry{BrowserID: browserID, Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "browser_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set storage item %q: %w", key, err)
	}
	return nil
}

func (r *storageRepository) RemoveItem(ctx context.Context, browserID, key string) error {
	err := r.db.WithContext(ctx).
		Where(&models.StorageEntry{BrowserID: browserID, Key: key}).
		Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("remove storage item %q: %w", key, err)
	}
	return nil
}

func (r *storageRepository) Clear(ctx context.Context, browserID string) error {
	return r.db.WithContext(ctx).
		Where("browser_id = ?", browserID).
		Delete(&models.StorageEntry{}).Error
}

// redisStorageRepository keeps one hash per browser.
type redisStorageRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorageRepository expires idle browsers after ttl; zero keeps
// them forever.
func NewRedisStorageRepository(client *redis.Client, prefix string, ttl time.Duration) StorageRepository {
	return &redisStorageRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *redisStorageRepository) hashKey(browserID string) string {
	return r.prefix + browserID
}

func (r *redisStorageRepository) GetItem(ctx context.Context, browserID, key string) (string, bool, error) {
	value, err := r.client.HGet(ctx, r.hashKey(browserID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get storage item %q: %w", key, err)
	}
	return value, true, nil
}

func (r *redisStorageRepository) SetItem(ctx context.Context, browserID, key, value string) error {
	hash := r.hashKey(browserID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, hash, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, hash, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set storage item %q: %w", key, err)
	}
	return nil
}

func (r *redisStorageRepository) RemoveItem(ctx context.Context, browserID, key string) error {
	if err := r.client.HDel(ctx, r.hashKey(browserID), key).Err(); err != nil {
		return fmt.Errorf("remove storage item %q: %w", key, err)
	}
	return nil
}

func (r *redisStorageRepository) Clear(ctx context.Context, browserID string) error {
	return r.client.Del(ctx, r.hashKey(browserID)).Err()
}

type memoryStorageRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

// NewMemoryStorageRepository is process-local and lost on restart.
func NewMemoryStorageRepository() StorageRepository {
	return &memoryStorageRepository{items: make(map[string]map[string]string)}
}

func (r *memoryStorageRepository) GetItem(_ context.Context, browserID, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[browserID][key]
	return v, ok, nil
}

func (r *memoryStorageRepository) SetItem(_ context.Context, browserID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.items[browserID]
	if !ok {
		bucket = make(map[string]string)
		r.items[browserID] = bucket
	}
	bucket[key] = value
	return nil
}

func (r *memoryStorageRepository) RemoveItem(_ context.Context, browserID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items[browserID], key)
	return nil
}

func (r *memoryStorageRepository) Clear(_ context.Context, browserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, browserID)
	return nil
}
