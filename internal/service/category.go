package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryForbidden    = errors.New("no permission for this category")
)

const defaultCategoryColor = "#007bff"

// CategoryStore is the persistence surface for categories.
type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int) (*model.Category, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	SearchByOwner(ctx context.Context, userID uuid.UUID, term string) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	SoftDelete(ctx context.Context, id int) error
}

// CategoryService handles user-owned task categories.
type CategoryService struct {
	categories CategoryStore
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create inserts a new category owned by the user.
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req model.CategoryRequest) (*model.Category, error) {
	if req.Name == "" {
		return nil, ErrCategoryNameRequired
	}

	color := req.ColorHex
	if color == "" {
		color = defaultCategoryColor
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		ColorHex:    color,
		IconName:    req.IconName,
		CreatedBy:   userID,
		IsActive:    true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return s.categories.GetByID(ctx, category.CategoryID)
}

// List returns the user's active categories.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	return s.categories.ListByOwner(ctx, userID)
}

// Search returns the user's active categories matching a name substring.
// An empty term behaves like List.
func (s *CategoryService) Search(ctx context.Context, userID uuid.UUID, term string) ([]model.Category, error) {
	if term == "" {
		return s.categories.ListByOwner(ctx, userID)
	}
	return s.categories.SearchByOwner(ctx, userID, term)
}

// Update modifies a category. Owner only.
func (s *CategoryService) Update(ctx context.Context, userID uuid.UUID, id int, req model.CategoryRequest) (*model.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.CreatedBy != userID {
		return nil, ErrCategoryForbidden
	}
	if req.Name == "" {
		return nil, ErrCategoryNameRequired
	}

	category.Name = req.Name
	category.Description = req.Description
	if req.ColorHex != "" {
		category.ColorHex = req.ColorHex
	}
	category.IconName = req.IconName

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.categories.GetByID(ctx, id)
}

// Delete soft-deletes a category. Owner only.
func (s *CategoryService) Delete(ctx context.Context, userID uuid.UUID, id int) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category.CreatedBy != userID {
		return ErrCategoryForbidden
	}
	return s.categories.SoftDelete(ctx, id)
}
