package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/utils/calc"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CartStore owns one browser's cart and wishlist. Every mutation is
// validated first, persisted, and only then applied to the in-memory
// mirror, so a failed operation leaves both untouched.
type CartStore struct {
	mu       sync.Mutex
	storage  *BrowserStorage
	cart     []models.CartLine
	wishlist []models.WishlistEntry
}

func LoadCartStore(ctx context.Context, storage *BrowserStorage) (*CartStore, error) {
	s := &CartStore{storage: storage}

	if _, err := storage.GetJSON(ctx, KeyCart, &s.cart); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if _, err := storage.GetJSON(ctx, KeyWishlist, &s.wishlist); err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}

	s.cart = sanitizeLines(s.cart)
	return s, nil
}

// sanitizeLines drops lines a hand-edited or older payload could carry
// that would break the quantity invariant.
func sanitizeLines(lines []models.CartLine) []models.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		if l.Size == "" {
			l.Size = models.OneSize
		}
		out = append(out, l)
	}
	return out
}

func (s *CartStore) AddToCart(ctx context.Context, product models.Product, size string, qty int) (int, error) {
	if !product.InStock {
		return 0, ErrOutOfStock
	}
	if product.HasSizeChoice() {
		if size == "" {
			return 0, ErrSizeRequired
		}
		if !product.HasSize(size) {
			return 0, ErrInvalidSize
		}
	} else {
		if size == "" {
			size = models.OneSize
		}
		if len(product.Sizes) > 0 && !product.HasSize(size) {
			return 0, ErrInvalidSize
		}
	}
	if qty < 1 {
		return 0, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := models.CartLine{
		ProductID:            product.ID,
		Source:               product.Source,
		Title:                product.Title,
		Price:                product.Price,
		OriginalPrice:        product.OriginalPrice,
		Images:               product.Images,
		Size:                 size,
		Quantity:             qty,
		PrescriptionRequired: product.PrescriptionRequired,
	}
	return s.commitCart(ctx, mergeLine(s.cart, line))
}

// MergeWishlistItemIntoCart adds one unit of a saved product. The entry
// stays in the wishlist.
func (s *CartStore) MergeWishlistItemIntoCart(ctx context.Context, entry models.WishlistEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := models.CartLine{
		ProductID: entry.ProductID,
		Source:    entry.Source,
		Title:     entry.Title,
		Price:     entry.Price,
		Images:    entry.Images,
		Size:      models.OneSize,
		Quantity:  1,
	}
	return s.commitCart(ctx, mergeLine(s.cart, line))
}

// mergeLine returns a new slice; lines sharing (id, size) accumulate.
func mergeLine(cart []models.CartLine, line models.CartLine) []models.CartLine {
	next := make([]models.CartLine, len(cart), len(cart)+1)
	copy(next, cart)
	for i := range next {
		if next[i].Matches(line.ProductID, line.Size) {
			next[i].Quantity += line.Quantity
			return next
		}
	}
	return append(next, line)
}

// UpdateQuantity treats any quantity below one as a removal.
func (s *CartStore) UpdateQuantity(ctx context.Context, index, newQty int) (int, error) {
	if newQty < 1 {
		return s.RemoveLine(ctx, index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cart) {
		return 0, ErrLineNotFound
	}
	next := make([]models.CartLine, len(s.cart))
	copy(next, s.cart)
	next[index].Quantity = newQty
	return s.commitCart(ctx, next)
}

func (s *CartStore) RemoveLine(ctx context.Context, index int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cart) {
		return 0, ErrLineNotFound
	}
	next := make([]models.CartLine, 0, len(s.cart)-1)
	next = append(next, s.cart[:index]...)
	next = append(next, s.cart[index+1:]...)
	return s.commitCart(ctx, next)
}

func (s *CartStore) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.commitCart(ctx, []models.CartLine{})
	return err
}

// ToggleWishlist adds the product when absent and removes it when present.
func (s *CartStore) ToggleWishlist(ctx context.Context, product models.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.wishlistIndex(product.ID); idx >= 0 {
		next := make([]models.WishlistEntry, 0, len(s.wishlist)-1)
		next = append(next, s.wishlist[:idx]...)
		next = append(next, s.wishlist[idx+1:]...)
		return false, s.commitWishlist(ctx, next)
	}

	next := make([]models.WishlistEntry, len(s.wishlist), len(s.wishlist)+1)
	copy(next, s.wishlist)
	next = append(next, models.WishlistEntry{
		ProductID: product.ID,
		Source:    product.Source,
		Title:     product.Title,
		Price:     product.Price,
		Images:    product.Images,
	})
	return true, s.commitWishlist(ctx, next)
}

func (s *CartStore) RemoveWishlistEntry(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.wishlist) {
		return ErrLineNotFound
	}
	next := make([]models.WishlistEntry, 0, len(s.wishlist)-1)
	next = append(next, s.wishlist[:index]...)
	next = append(next, s.wishlist[index+1:]...)
	return s.commitWishlist(ctx, next)
}

func (s *CartStore) ClearWishlist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitWishlist(ctx, []models.WishlistEntry{})
}

func (s *CartStore) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *CartStore) Wishlist() []models.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.WishlistEntry, len(s.wishlist))
	copy(out, s.wishlist)
	return out
}

func (s *CartStore) WishlistEntry(index int) (models.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.wishlist) {
		return models.WishlistEntry{}, ErrLineNotFound
	}
	return s.wishlist[index], nil
}

func (s *CartStore) InWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wishlistIndex(productID) >= 0
}

// Count is the sum of quantities, not the number of lines.
func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return countItems(s.cart)
}

func (s *CartStore) Summary() models.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal := decimal.Zero
	for _, l := range s.cart {
		subtotal = subtotal.Add(l.LineTotal())
	}

	count := countItems(s.cart)
	tax := calc.CalculateTax(subtotal)
	shipping := calc.ShippingFee(count)
	discount := decimal.Zero

	return models.CartSummary{
		ItemCount:  count,
		Subtotal:   subtotal,
		TaxPercent: calc.GetTaxPercent(),
		TaxAmount:  tax,
		Shipping:   shipping,
		Discount:   discount,
		GrandTotal: calc.CalculateGrandTotal(subtotal, tax, shipping, discount),
	}
}

func (s *CartStore) wishlistIndex(productID string) int {
	for i, w := range s.wishlist {
		if w.ProductID == productID {
			return i
		}
	}
	return -1
}

// commitCart persists next and the derived count, then swaps it in.
// Callers hold s.mu.
func (s *CartStore) commitCart(ctx context.Context, next []models.CartLine) (int, error) {
	if err := s.storage.SetJSON(ctx, KeyCart, next); err != nil {
		return 0, fmt.Errorf("persist cart: %w", err)
	}
	s.cart = next

	count := countItems(next)
	if err := s.storage.SetString(ctx, KeyCartCount, strconv.Itoa(count)); err != nil {
		log.Warn().Err(err).Str("browser_id", s.storage.BrowserID()).
			Msg("CartStore.commitCart: failed to persist advisory cart count")
	}
	return count, nil
}

func (s *CartStore) commitWishlist(ctx context.Context, next []models.WishlistEntry) error {
	if err := s.storage.SetJSON(ctx, KeyWishlist, next); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	s.wishlist = next

	if err := s.storage.SetString(ctx, KeyCartCount, strconv.Itoa(countItems(s.cart))); err != nil {
		log.Warn().Err(err).Str("browser_id", s.storage.BrowserID()).
			Msg("CartStore.commitWishlist: failed to persist advisory cart count")
	}
	return nil
}

func countItems(lines []models.CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}
