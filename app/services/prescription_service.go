package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const DefaultUploadMaxBytes int64 = 5 << 20

type UploadState int

const (
	UploadIdle UploadState = iota
	UploadFileChosen
	UploadPreviewReady
	UploadNameOnly
	UploadSubmitted
)

func (s UploadState) String() string {
	switch s {
	case UploadFileChosen:
		return "file_chosen"
	case UploadPreviewReady:
		return "preview_ready"
	case UploadNameOnly:
		return "name_only"
	case UploadSubmitted:
		return "submitted"
	default:
		return "idle"
	}
}

type stagedFile struct {
	name        string
	contentType string
	dataURL     *string
}

// PrescriptionUpload stages at most one file for one product. Images get
// an inline preview; other files are kept by name only.
type PrescriptionUpload struct {
	mu        sync.Mutex
	productID string
	maxBytes  int64
	state     UploadState
	staged    *stagedFile
	now       func() time.Time
}

func NewPrescriptionUpload(productID string, maxBytes int64) *PrescriptionUpload {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	return &PrescriptionUpload{productID: productID, maxBytes: maxBytes, now: time.Now}
}

func (u *PrescriptionUpload) ProductID() string {
	return u.productID
}

func (u *PrescriptionUpload) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Preview returns the staged file name and its data URL, if any.
func (u *PrescriptionUpload) Preview() (string, string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.staged == nil {
		return "", ""
	}
	if u.staged.dataURL == nil {
		return u.staged.name, ""
	}
	return u.staged.name, *u.staged.dataURL
}

// Choose reads r to completion and stages it, replacing any earlier file.
// On error the previous staged file is kept.
func (u *PrescriptionUpload) Choose(ctx context.Context, fileName string, r io.Reader) error {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || r == nil {
		return ErrMissingFile
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	previous := u.state
	u.state = UploadFileChosen

	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		u.state = previous
		return fmt.Errorf("read prescription file: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		u.state = previous
		return ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	staged := &stagedFile{name: fileName, contentType: mtype.String()}

	if strings.HasPrefix(mtype.String(), "image/") {
		dataURL := "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
		staged.dataURL = &dataURL
		u.state = UploadPreviewReady
	} else {
		u.state = UploadNameOnly
	}
	u.staged = staged
	return nil
}

// Submit stores the staged file under the product id, overwriting any
// earlier record, and returns the upload to Idle.
func (u *PrescriptionUpload) Submit(ctx context.Context, store *PrescriptionStore) (models.PrescriptionRecord, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.staged == nil {
		return models.PrescriptionRecord{}, ErrMissingFile
	}

	record := models.PrescriptionRecord{
		FileName:    u.staged.name,
		DataURL:     u.staged.dataURL,
		ContentType: u.staged.contentType,
		UploadedAt:  u.now().UTC(),
	}
	if err := store.Save(ctx, u.productID, record); err != nil {
		return models.PrescriptionRecord{}, err
	}

	u.state = UploadSubmitted
	log.Info().Str("product_id", u.productID).Str("file", record.FileName).
		Msg("PrescriptionUpload.Submit: prescription saved")

	u.staged = nil
	u.state = UploadIdle
	return record, nil
}

func (u *PrescriptionUpload) Cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.staged = nil
	u.state = UploadIdle
}

// PrescriptionStore is the persisted productID → record map of one browser.
type PrescriptionStore struct {
	storage *BrowserStorage
}

func NewPrescriptionStore(storage *BrowserStorage) *PrescriptionStore {
	return &PrescriptionStore{storage: storage}
}

func (s *PrescriptionStore) All(ctx context.Context) (models.Prescriptions, error) {
	records := models.Prescriptions{}
	if _, err := s.storage.GetJSON(ctx, KeyPrescriptions, &records); err != nil {
		return nil, fmt.Errorf("load prescriptions: %w", err)
	}
	if records == nil {
		records = models.Prescriptions{}
	}
	return records, nil
}

func (s *PrescriptionStore) Get(ctx context.Context, productID string) (models.PrescriptionRecord, bool, error) {
	records, err := s.All(ctx)
	if err != nil {
		return models.PrescriptionRecord{}, false, err
	}
	rec, ok := records[productID]
	return rec, ok, nil
}

func (s *PrescriptionStore) Save(ctx context.Context, productID string, record models.PrescriptionRecord) error {
	records, err := s.All(ctx)
	if err != nil {
		return err
	}
	records[productID] = record
	if err := s.storage.SetJSON(ctx, KeyPrescriptions, records); err != nil {
		return fmt.Errorf("persist prescriptions: %w", err)
	}
	return nil
}

const (
	DefaultUploadTTL        = 30 * time.Minute
	DefaultMaxPendingUpload = 1000
)

type uploadKey struct {
	browserID string
	productID string
}

type pendingUpload struct {
	upload   *PrescriptionUpload
	lastUsed time.Time
}

// UploadRegistry holds the staged upload of every open upload form between
// the stage and submit requests. Entries idle longer than the TTL are
// swept, and at capacity the least recently used entry is evicted.
type UploadRegistry struct {
	mu         sync.Mutex
	maxBytes   int64
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	uploads    map[uploadKey]*pendingUpload
}

type UploadRegistryOption func(*UploadRegistry)

func WithUploadTTL(ttl time.Duration) UploadRegistryOption {
	return func(r *UploadRegistry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithMaxPendingUploads(n int) UploadRegistryOption {
	return func(r *UploadRegistry) {
		if n > 0 {
			r.maxEntries = n
		}
	}
}

func NewUploadRegistry(maxBytes int64, opts ...UploadRegistryOption) *UploadRegistry {
	r := &UploadRegistry{
		maxBytes:   maxBytes,
		ttl:        DefaultUploadTTL,
		maxEntries: DefaultMaxPendingUpload,
		now:        time.Now,
		uploads:    make(map[uploadKey]*pendingUpload),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *UploadRegistry) Get(browserID, productID string) *PrescriptionUpload {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	key := uploadKey{browserID, productID}
	if p, ok := r.uploads[key]; ok {
		p.lastUsed = now
		return p.upload
	}

	if len(r.uploads) >= r.maxEntries {
		r.evictOldest()
	}
	p := &pendingUpload{upload: NewPrescriptionUpload(productID, r.maxBytes), lastUsed: now}
	r.uploads[key] = p
	return p.upload
}

// Peek returns the upload without creating one.
func (r *UploadRegistry) Peek(browserID, productID string) (*PrescriptionUpload, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	p, ok := r.uploads[uploadKey{browserID, productID}]
	if !ok {
		return nil, false
	}
	p.lastUsed = now
	return p.upload, true
}

func (r *UploadRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep(r.now())
	return len(r.uploads)
}

func (r *UploadRegistry) sweep(now time.Time) {
	for key, p := range r.uploads {
		if now.Sub(p.lastUsed) > r.ttl {
			delete(r.uploads, key)
		}
	}
}

func (r *UploadRegistry) evictOldest() {
	var (
		oldestKey uploadKey
		oldest    time.Time
		found     bool
	)
	for key, p := range r.uploads {
		if !found || p.lastUsed.Before(oldest) {
			oldestKey, oldest, found = key, p.lastUsed, true
		}
	}
	if found {
		log.Warn().Str("product_id", oldestKey.productID).Msg("UploadRegistry.evictOldest: registry full, dropping staged upload")
		delete(r.uploads, oldestKey)
	}
}

func (r *UploadRegistry) Drop(browserID, productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.uploads, uploadKey{browserID, productID})
}
