package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/pkg/apperror"
	"github.com/sabaidee/pos-api/pkg/pagination"
)

// ProductService handles product catalog business logic
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateProductInput represents the input for creating a product
type CreateProductInput struct {
	Name       string
	Price      int64
	Cost       int64
	Image      string
	CategoryID *uuid.UUID
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Price <= 0 {
		return nil, apperror.NewBadRequestError("Price must be positive")
	}
	if input.Cost < 0 {
		return nil, apperror.NewBadRequestError("Cost cannot be negative")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	product := &entity.Product{
		Name:       input.Name,
		Price:      input.Price,
		Cost:       input.Cost,
		Image:      input.Image,
		CategoryID: input.CategoryID,
		Active:     true,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// UpdateProductInput represents the input for updating a product
type UpdateProductInput struct {
	Name       string
	Price      int64
	Cost       int64
	Image      string
	CategoryID *uuid.UUID
	Active     *bool
}

// UpdateProduct updates an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.Cost >= 0 {
		product.Cost = input.Cost
	}
	if input.Image != "" {
		product.Image = input.Image
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// DeactivateProduct hides a product from the sale grid without deleting it,
// so past transactions keep a valid product reference.
func (s *ProductService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	product.Active = false
	return s.productRepo.Update(ctx, product)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProductsInput represents filters for listing products
type ListProductsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	ActiveOnly bool
}

// ListProducts lists products with filtering and pagination
func (s *ProductService) ListProducts(ctx context.Context, input *ListProductsInput) ([]entity.Product, *pagination.Pagination, error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}

	products, total, err := s.productRepo.List(ctx, &repository.ProductFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		CategoryID: input.CategoryID,
		ActiveOnly: input.ActiveOnly,
	})
	if err != nil {
		return nil, nil, err
	}

	return products, pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total), nil
}
