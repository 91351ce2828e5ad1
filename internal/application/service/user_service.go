package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/pkg/apperror"
	"github.com/sabaidee/pos-api/pkg/pagination"
)

// UserService handles staff account management
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUserInput represents the input for creating a staff account
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Avatar   string
}

// CreateUser creates a new staff account
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	if input.Role != entity.RoleAdmin && input.Role != entity.RoleStaff {
		return nil, apperror.NewBadRequestError("Role must be admin or staff")
	}
	if len(input.Password) < 8 {
		return nil, apperror.NewBadRequestError("Password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	user := &entity.User{
		Name:   input.Name,
		Email:  input.Email,
		Role:   input.Role,
		Avatar: input.Avatar,
		Active: true,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserInput represents the input for updating a staff account
type UpdateUserInput struct {
	Name     string
	Password string
	Role     string
	Avatar   string
	Active   *bool
}

// UpdateUser updates a staff account
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != "" {
		if input.Role != entity.RoleAdmin && input.Role != entity.RoleStaff {
			return nil, apperror.NewBadRequestError("Role must be admin or staff")
		}
		user.Role = input.Role
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Password != "" {
		if len(input.Password) < 8 {
			return nil, apperror.NewBadRequestError("Password must be at least 8 characters")
		}
		if err := user.SetPassword(input.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ListUsers lists staff accounts with pagination
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, *pagination.Pagination, error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}

	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, nil, err
	}
	return users, pagination.NewPagination(params.Page, params.PerPage, total), nil
}

// DeleteUser removes a staff account
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}
	return s.userRepo.Delete(ctx, id)
}
