package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/pkg/apperror"
	"github.com/sabaidee/pos-api/pkg/pagination"
)

// TransactionService exposes the read side of the sale history. Writing
// happens only through the payment flow.
type TransactionService struct {
	txRepo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{
		txRepo: txRepo,
	}
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactionsInput represents filters for listing transactions
type ListTransactionsInput struct {
	Pagination *pagination.PaginationParams
	Method     string
	From       *time.Time
	To         *time.Time
}

// ListTransactions lists transactions with filtering and pagination, newest
// first.
func (s *TransactionService) ListTransactions(ctx context.Context, input *ListTransactionsInput) ([]entity.Transaction, *pagination.Pagination, error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}

	txns, total, err := s.txRepo.List(ctx, &repository.TransactionFilterParams{
		Pagination: input.Pagination,
		Method:     input.Method,
		From:       input.From,
		To:         input.To,
	})
	if err != nil {
		return nil, nil, err
	}

	return txns, pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total), nil
}
