package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG header mimetype recognizes
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestPrescriptionStore() *PrescriptionStore {
	return NewPrescriptionStore(NewBrowserStorage(repositories.NewMemoryStorageRepository(), "b"))
}

func TestPrescriptionUploadImageFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestPrescriptionStore()
	up := NewPrescriptionUpload("42", 0)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	up.now = func() time.Time { return fixed }

	require.Equal(t, UploadIdle, up.State())

	require.NoError(t, up.Choose(ctx, "rx.png", bytes.NewReader(pngBytes)))
	require.Equal(t, UploadPreviewReady, up.State())
	name, preview := up.Preview()
	assert.Equal(t, "rx.png", name)
	assert.True(t, strings.HasPrefix(preview, "data:image/png;base64,"))

	rec, err := up.Submit(ctx, store)
	require.NoError(t, err)
	require.Equal(t, UploadIdle, up.State())
	require.NotNil(t, rec.DataURL)
	assert.Equal(t, fixed, rec.UploadedAt)

	saved, ok, err := store.Get(ctx, "42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "rx.png", saved.FileName)
	assert.Equal(t, "image/png", saved.ContentType)
}

func TestPrescriptionUploadNonImageKeepsNameOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestPrescriptionStore()
	up := NewPrescriptionUpload("7", 0)

	require.NoError(t, up.Choose(ctx, "rx.pdf", strings.NewReader("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")))
	require.Equal(t, UploadNameOnly, up.State())

	rec, err := up.Submit(ctx, store)
	require.NoError(t, err)
	assert.Nil(t, rec.DataURL)
	assert.Equal(t, "application/pdf", rec.ContentType)
}

func TestPrescriptionSubmitWithoutFile(t *testing.T) {
	t.Parallel()

	up := NewPrescriptionUpload("1", 0)
	_, err := up.Submit(context.Background(), newTestPrescriptionStore())
	require.ErrorIs(t, err, ErrMissingFile)
	require.Equal(t, UploadIdle, up.State())

	require.ErrorIs(t, up.Choose(context.Background(), "", strings.NewReader("x")), ErrMissingFile)
}

func TestPrescriptionCancelDiscardsStagedFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	up := NewPrescriptionUpload("1", 0)
	require.NoError(t, up.Choose(ctx, "a.txt", strings.NewReader("hello")))
	up.Cancel()
	require.Equal(t, UploadIdle, up.State())

	_, err := up.Submit(ctx, newTestPrescriptionStore())
	require.ErrorIs(t, err, ErrMissingFile)
}

func TestPrescriptionChooseTooLargeKeepsPrevious(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	up := NewPrescriptionUpload("1", 8)
	require.NoError(t, up.Choose(ctx, "small.txt", strings.NewReader("tiny")))

	err := up.Choose(ctx, "big.txt", strings.NewReader(strings.Repeat("x", 9)))
	require.ErrorIs(t, err, ErrFileTooLarge)
	require.Equal(t, UploadNameOnly, up.State())

	name, _ := up.Preview()
	assert.Equal(t, "small.txt", name)
}

func TestPrescriptionReuploadOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestPrescriptionStore()
	up := NewPrescriptionUpload("1", 0)

	require.NoError(t, up.Choose(ctx, "first.txt", strings.NewReader("a")))
	_, err := up.Submit(ctx, store)
	require.NoError(t, err)

	require.NoError(t, up.Choose(ctx, "second.txt", strings.NewReader("b")))
	_, err = up.Submit(ctx, store)
	require.NoError(t, err)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "second.txt", all["1"].FileName)
}

func TestUploadRegistry(t *testing.T) {
	t.Parallel()

	reg := NewUploadRegistry(0)
	a := reg.Get("b1", "p1")
	require.Same(t, a, reg.Get("b1", "p1"))
	require.NotSame(t, a, reg.Get("b2", "p1"))

	reg.Drop("b1", "p1")
	_, ok := reg.Peek("b1", "p1")
	require.False(t, ok)
}

func TestPrescriptionStoreIgnoresPartiallyDecodedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repositories.NewMemoryStorageRepository()
	require.NoError(t, repo.SetItem(ctx, "b", KeyPrescriptions,
		`{"p1":{"fileName":"a.png","dataURL":null,"uploadedAt":"2026-01-02T03:04:05Z"},"p2":{"fileName":7}}`))
	store := NewPrescriptionStore(NewBrowserStorage(repo, "b"))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, ok, err := store.Get(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUploadRegistrySweepsIdleUploads(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := NewUploadRegistry(0, WithUploadTTL(time.Minute))
	reg.now = func() time.Time { return clock }

	reg.Get("b1", "p1")
	clock = clock.Add(30 * time.Second)
	reg.Get("b2", "p2")
	require.Equal(t, 2, reg.Len())

	clock = clock.Add(45 * time.Second)
	_, ok := reg.Peek("b1", "p1")
	assert.False(t, ok, "idle past the ttl")
	_, ok = reg.Peek("b2", "p2")
	assert.True(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestUploadRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := NewUploadRegistry(0, WithMaxPendingUploads(3))
	reg.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	reg.Get("b", "p1")
	reg.Get("b", "p2")
	reg.Get("b", "p3")
	reg.Peek("b", "p1")
	reg.Get("b", "p4")

	assert.Equal(t, 3, reg.Len())
	_, ok := reg.Peek("b", "p2")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = reg.Peek("b", "p1")
	assert.True(t, ok)
}
