package services

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/rs/zerolog/log"
)

// Keys persisted per browser.
const (
	KeyCart              = "cart"
	KeyWishlist          = "wishlist"
	KeyPrescriptions     = "prescriptions"
	KeyCartCount         = "cartCount"
	KeySelectedProductID = "selectedProductId"
	KeySearchTerm        = "searchTerm"
)

// BrowserStorage is the key-value view of one browser's persisted state.
type BrowserStorage struct {
	repo      repositories.StorageRepository
	browserID string
}

func NewBrowserStorage(repo repositories.StorageRepository, browserID string) *BrowserStorage {
	return &BrowserStorage{repo: repo, browserID: browserID}
}

func (s *BrowserStorage) BrowserID() string {
	return s.browserID
}

func (s *BrowserStorage) GetString(ctx context.Context, key string) (string, error) {
	v, _, err := s.repo.GetItem(ctx, s.browserID, key)
	return v, err
}

func (s *BrowserStorage) SetString(ctx context.Context, key, value string) error {
	return s.repo.SetItem(ctx, s.browserID, key, value)
}

func (s *BrowserStorage) Remove(ctx context.Context, key string) error {
	return s.repo.RemoveItem(ctx, s.browserID, key)
}

// GetJSON decodes key into dest. A missing key or a value that does not
// decode leaves dest untouched and reports false; only storage failures
// are returned as errors.
func (s *BrowserStorage) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok, err := s.repo.GetItem(ctx, s.browserID, key)
	if err != nil {
		return false, err
	}
	if !ok || raw == "" {
		return false, nil
	}

	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("decode %s: destination must be a non-nil pointer", key)
	}

	// dest is only assigned a fully decoded value; a type mismatch must
	// not leave it half filled.
	scratch := reflect.New(target.Elem().Type())
	if err := json.Unmarshal([]byte(raw), scratch.Interface()); err != nil {
		log.Warn().Err(err).Str("browser_id", s.browserID).Str("key", key).
			Msg("BrowserStorage.GetJSON: stored value does not decode, using empty default")
		return false, nil
	}
	target.Elem().Set(scratch.Elem())
	return true, nil
}

func (s *BrowserStorage) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.repo.SetItem(ctx, s.browserID, key, string(data))
}
