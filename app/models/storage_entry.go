package models

import "time"

// StorageEntry is one key of a browser's persisted key-value storage.
type StorageEntry struct {
	ID        uint   `gorm:"primaryKey"`
	BrowserID string `gorm:"size:36;not null;uniqueIndex:idx_browser_key"`
	Key       string `gorm:"size:64;not null;uniqueIndex:idx_browser_key"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
