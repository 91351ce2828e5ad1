package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
)

// CartRepository persists the active cart so it survives a restart. The cart
// service keeps the authoritative copy in memory and writes every mutation
// through, so Replace swaps the whole set of lines atomically.
type CartRepository interface {
	Load(ctx context.Context) ([]entity.CartLine, error)
	Replace(ctx context.Context, lines []entity.CartLine) error
}

// HeldBillRepository defines the interface for parked-cart storage.
type HeldBillRepository interface {
	Create(ctx context.Context, bill *entity.HeldBill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldBill, error)
	List(ctx context.Context) ([]entity.HeldBill, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
