package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartStore(t *testing.T) (*CartStore, *BrowserStorage) {
	t.Helper()

	storage := NewBrowserStorage(repositories.NewMemoryStorageRepository(), "browser-1")
	store, err := LoadCartStore(context.Background(), storage)
	require.NoError(t, err)
	return store, storage
}

func sampleProduct(id string, price int64, sizes ...string) models.Product {
	if len(sizes) == 0 {
		sizes = []string{models.OneSize}
	}
	return models.Product{
		ID:      id,
		Title:   "Product " + id,
		Price:   decimal.NewFromInt(price),
		Sizes:   sizes,
		InStock: true,
		Images:  []string{"http://assets.test/" + id + ".png"},
	}
}

func TestAddToCartOutOfStockLeavesCartUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestCartStore(t)
	_, err := store.AddToCart(ctx, sampleProduct("1", 100), "", 1)
	require.NoError(t, err)

	p := sampleProduct("2", 50)
	p.InStock = false

	_, err = store.AddToCart(ctx, p, "", 1)
	require.ErrorIs(t, err, ErrOutOfStock)
	require.Len(t, store.Lines(), 1)
	require.Equal(t, 1, store.Count())
}

func TestAddToCartSizeRequired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestCartStore(t)

	_, err := store.AddToCart(ctx, sampleProduct("1", 100, "S", "M"), "", 1)
	require.ErrorIs(t, err, ErrSizeRequired)
	require.Empty(t, store.Lines())

	_, err = store.AddToCart(ctx, sampleProduct("1", 100, "S", "M"), "XL", 1)
	require.ErrorIs(t, err, ErrInvalidSize)
	require.Empty(t, store.Lines())
}

func TestAddToCartInvalidQuantity(t *testing.T) {
	t.Parallel()

	store, _ := newTestCartStore(t)
	_, err := store.AddToCart(context.Background(), sampleProduct("1", 100), "", 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Empty(t, store.Lines())
}

func TestAddToCartAccumulatesSameIDAndSize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestCartStore(t)
	p := sampleProduct("1", 100, "S", "M")

	count, err := store.AddToCart(ctx, p, "M", 1)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = store.AddToCart(ctx, p, "M", 2)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].ProductID)
	assert.Equal(t, "M", lines[0].Size)
	assert.Equal(t, 3, lines[0].Quantity)

	count, err = store.AddToCart(ctx, p, "S", 1)
	require.NoError(t, err)
	require.Equal(t, 4, count)
	require.Len(t, store.Lines(), 2)
}

func TestAddToCartDefaultsToOneSize(t *testing.T) {
	t.Parallel()

	store, _ := newTestCartStore(t)
	_, err := store.AddToCart(context.Background(), sampleProduct("1", 100), "", 1)
	require.NoError(t, err)
	require.Equal(t, models.OneSize, store.Lines()[0].Size)
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestCartStore(t)
	_, err := store.AddToCart(ctx, sampleProduct("1", 100), "", 1)
	require.NoError(t, err)

	count, err := store.UpdateQuantity(ctx, 0, 5)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	count, err = store.UpdateQuantity(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.Empty(t, store.Lines())

	_, err = store.UpdateQuantity(ctx, 3, 1)
	require.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveAndClearRecomputeCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, storage := newTestCartStore(t)
	_, err := store.AddToCart(ctx, sampleProduct("1", 100), "", 2)
	require.NoError(t, err)
	_, err = store.AddToCart(ctx, sampleProduct("2", 10), "", 3)
	require.NoError(t, err)

	count, err := store.RemoveLine(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	persisted, err := storage.GetString(ctx, KeyCartCount)
	require.NoError(t, err)
	require.Equal(t, "3", persisted)

	_, err = store.RemoveLine(ctx, 5)
	require.ErrorIs(t, err, ErrLineNotFound)

	require.NoError(t, store.ClearCart(ctx))
	require.Equal(t, 0, store.Count())

	persisted, err = storage.GetString(ctx, KeyCartCount)
	require.NoError(t, err)
	require.Equal(t, "0", persisted)
}

func TestCartPersistsAcrossLoads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, storage := newTestCartStore(t)
	_, err := store.AddToCart(ctx, sampleProduct("1", 100, "S", "M"), "S", 2)
	require.NoError(t, err)
	_, err = store.ToggleWishlist(ctx, sampleProduct("9", 20))
	require.NoError(t, err)

	reloaded, err := LoadCartStore(ctx, storage)
	require.NoError(t, err)
	lines := reloaded.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "S", lines[0].Size)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].Price.Equal(decimal.NewFromInt(100)))
	require.True(t, reloaded.InWishlist("9"))
}

func TestToggleWishlistIsItsOwnInverse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestCartStore(t)
	p := sampleProduct("1", 100)

	added, err := store.ToggleWishlist(ctx, p)
	require.NoError(t, err)
	require.True(t, added)
	require.True(t, store.InWishlist("1"))

	added, err = store.ToggleWishlist(ctx, p)
	require.NoError(t, err)
	require.False(t, added)
	require.False(t, store.InWishlist("1"))
	require.Empty(t, store.Wishlist())
}

func TestMergeWishlistItemIntoCartUsesOneSizeIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestCartStore(t)

	_, err := store.AddToCart(ctx, sampleProduct("1", 100, "S", "M"), "M", 1)
	require.NoError(t, err)
	_, err = store.ToggleWishlist(ctx, sampleProduct("1", 100, "S", "M"))
	require.NoError(t, err)

	entry, err := store.WishlistEntry(0)
	require.NoError(t, err)

	count, err := store.MergeWishlistItemIntoCart(ctx, entry)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	lines := store.Lines()
	require.Len(t, lines, 2, "different size keeps a separate line")
	assert.Equal(t, models.OneSize, lines[1].Size)
	assert.Equal(t, 1, lines[1].Quantity)

	count, err = store.MergeWishlistItemIntoCart(ctx, entry)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.Equal(t, 2, store.Lines()[1].Quantity)
	require.True(t, store.InWishlist("1"), "entry stays saved")
}

func TestRemoveAndClearWishlist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestCartStore(t)
	for _, id := range []string{"1", "2", "3"} {
		_, err := store.ToggleWishlist(ctx, sampleProduct(id, 10))
		require.NoError(t, err)
	}

	require.NoError(t, store.RemoveWishlistEntry(ctx, 1))
	require.False(t, store.InWishlist("2"))
	require.ErrorIs(t, store.RemoveWishlistEntry(ctx, 9), ErrLineNotFound)

	require.NoError(t, store.ClearWishlist(ctx))
	require.Empty(t, store.Wishlist())
}

func TestSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestCartStore(t)

	empty := store.Summary()
	require.True(t, empty.Shipping.IsZero())
	require.True(t, empty.GrandTotal.IsZero())

	_, err := store.AddToCart(ctx, sampleProduct("1", 500), "", 2)
	require.NoError(t, err)

	s := store.Summary()
	assert.Equal(t, 2, s.ItemCount)
	assert.True(t, s.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.TaxAmount.Equal(decimal.NewFromInt(180)))
	assert.True(t, s.Shipping.Equal(decimal.NewFromInt(49)))
	assert.True(t, s.GrandTotal.Equal(decimal.NewFromInt(1229)))
}

func TestLoadCartStoreIgnoresMalformedJSON(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repositories.NewMemoryStorageRepository()
	require.NoError(t, repo.SetItem(ctx, "b", KeyCart, "{not json"))
	require.NoError(t, repo.SetItem(ctx, "b", KeyWishlist, `"oops"`))

	store, err := LoadCartStore(ctx, NewBrowserStorage(repo, "b"))
	require.NoError(t, err)
	require.Empty(t, store.Lines())
	require.Empty(t, store.Wishlist())
}

func TestLoadCartStoreDropsPartiallyDecodedValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repositories.NewMemoryStorageRepository()
	require.NoError(t, repo.SetItem(ctx, "b", KeyCart, `[{"id":"1","size":"M","quantity":2},{"id":"2","quantity":"three"}]`))
	require.NoError(t, repo.SetItem(ctx, "b", KeyWishlist, `[{"id":"1"},{"id":2}]`))

	store, err := LoadCartStore(ctx, NewBrowserStorage(repo, "b"))
	require.NoError(t, err)
	require.Empty(t, store.Lines())
	require.Empty(t, store.Wishlist())
	require.Zero(t, store.Count())
}

func TestGetJSONTypeMismatchLeavesDestUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repositories.NewMemoryStorageRepository()
	storage := NewBrowserStorage(repo, "b")
	require.NoError(t, repo.SetItem(ctx, "b", "numbers", `[1,2,"x"]`))

	dest := []int{9}
	ok, err := storage.GetJSON(ctx, "numbers", &dest)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []int{9}, dest)

	_, err = storage.GetJSON(ctx, "numbers", dest)
	require.Error(t, err, "non-pointer destinations are a programming error")
}

type failingStorage struct {
	repositories.StorageRepository
}

func (failingStorage) SetItem(context.Context, string, string, string) error {
	return errors.New("disk full")
}

func TestFailedPersistLeavesCartUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := LoadCartStore(ctx, NewBrowserStorage(failingStorage{repositories.NewMemoryStorageRepository()}, "b"))
	require.NoError(t, err)

	_, err = store.AddToCart(ctx, sampleProduct("1", 10), "", 1)
	require.Error(t, err)
	require.Empty(t, store.Lines())
}
