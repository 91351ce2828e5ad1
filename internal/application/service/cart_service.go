package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/pkg/apperror"
)

// CartService owns the single active cart and the held-bill collection. The
// in-memory copy is authoritative; every mutation is written through to the
// cart repository so the cart survives a restart.
type CartService struct {
	mu           sync.Mutex
	items        []entity.CartItem
	cartRepo     repository.CartRepository
	heldBillRepo repository.HeldBillRepository
	productRepo  repository.ProductRepository
}

// NewCartService creates a cart service and reloads any persisted cart.
func NewCartService(cartRepo repository.CartRepository, heldBillRepo repository.HeldBillRepository, productRepo repository.ProductRepository) (*CartService, error) {
	s := &CartService{
		cartRepo:     cartRepo,
		heldBillRepo: heldBillRepo,
		productRepo:  productRepo,
	}

	lines, err := cartRepo.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted cart: %w", err)
	}
	for _, line := range lines {
		s.items = append(s.items, line.Item())
	}
	return s, nil
}

// Items returns a copy of the active cart lines in insertion order.
func (s *CartService) Items() []entity.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CartService) snapshotLocked() []entity.CartItem {
	out := make([]entity.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total returns the sum of all line totals in kip.
func (s *CartService) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

func (s *CartService) totalLocked() int64 {
	var total int64
	for _, item := range s.items {
		total += item.Total()
	}
	return total
}

// AddItem adds one unit of the product to the cart. An existing line for the
// same product gets its quantity incremented; otherwise a new line is
// appended with quantity 1.
func (s *CartService) AddItem(ctx context.Context, productID uuid.UUID) ([]entity.CartItem, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if !product.Active {
		return nil, apperror.NewBadRequestError("Product is not available for sale")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, entity.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Cost:      product.Cost,
			Image:     product.Image,
			Quantity:  1,
		})
	}

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

// SetQuantity adjusts a line's quantity by delta, clamped to a minimum of 1.
// It never removes the line, even when the result would be zero or negative.
func (s *CartService) SetQuantity(ctx context.Context, productID uuid.UUID, delta int) ([]entity.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			q := s.items[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			s.items[i].Quantity = q
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

// RemoveItem removes the line for the product entirely, regardless of
// quantity.
func (s *CartService) RemoveItem(ctx context.Context, productID uuid.UUID) ([]entity.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.items {
		if s.items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Cart item")
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

// Clear empties the active cart.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.persistLocked(ctx)
}

// Hold parks the current cart as a held bill and clears the cart. An empty
// cart is a silent no-op (returns nil bill, no error). The bill total is
// frozen at hold time.
func (s *CartService) Hold(ctx context.Context) (*entity.HeldBill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil, nil
	}

	count, err := s.heldBillRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	bill := entity.NewHeldBill(fmt.Sprintf("Bill #%d", count+1), s.items)
	if err := s.heldBillRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.items = nil
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return bill, nil
}

// Recall replaces the active cart wholesale with a held bill's items and
// removes the bill. Items currently in the cart are discarded; a cashier who
// wants to keep them must hold or check out first.
func (s *CartService) Recall(ctx context.Context, billID uuid.UUID) ([]entity.CartItem, error) {
	bill, err := s.heldBillRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Held bill")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = bill.CartItems()
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	if err := s.heldBillRepo.Delete(ctx, billID); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

// Discard removes a held bill without restoring it.
func (s *CartService) Discard(ctx context.Context, billID uuid.UUID) error {
	bill, err := s.heldBillRepo.GetByID(ctx, billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return apperror.NewNotFoundError("Held bill")
	}
	return s.heldBillRepo.Delete(ctx, billID)
}

// HeldBills lists parked bills, oldest first.
func (s *CartService) HeldBills(ctx context.Context) ([]entity.HeldBill, error) {
	return s.heldBillRepo.List(ctx)
}

func (s *CartService) persistLocked(ctx context.Context) error {
	lines := make([]entity.CartLine, 0, len(s.items))
	for i, item := range s.items {
		lines = append(lines, entity.NewCartLine(item, i))
	}
	return s.cartRepo.Replace(ctx, lines)
}
