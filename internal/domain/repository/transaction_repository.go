package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/pkg/pagination"
)

// TransactionRepository defines the interface for the append-only sale history.
// There are deliberately no Update or Delete methods.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// ListBetween returns all transactions paid within [from, to), items included,
	// for dashboard aggregation.
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.Transaction, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Method     string
	From       *time.Time
	To         *time.Time
}
