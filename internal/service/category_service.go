package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affcms/festival-api/internal/models"
	"github.com/affcms/festival-api/internal/repository"
	appErrors "github.com/affcms/festival-api/pkg/errors"
)

type categoryRepository interface {
	List(ctx context.Context, visibleOnly bool) ([]models.SlotCategory, error)
	FindByID(ctx context.Context, id string) (*models.SlotCategory, error)
	FindByName(ctx context.Context, name string) (*models.SlotCategory, error)
	Insert(ctx context.Context, category *models.SlotCategory) error
	Update(ctx context.Context, category *models.SlotCategory) error
	Delete(ctx context.Context, id string) error
}

// CreateCategoryRequest describes payload for creating a slot category.
type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required"`
	Order     int    `json:"order"`
	IsVisible *bool  `json:"isVisible"`
}

// UpdateCategoryRequest updates category fields; only provided fields are touched.
type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	Order     *int    `json:"order"`
	IsVisible *bool   `json:"isVisible"`
}

// CategoryService manages the slot category registry and resolves
// caller-supplied category input to the canonical name stored on slots.
type CategoryService struct {
	repo      categoryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoryService instantiates CategoryService.
func NewCategoryService(repo categoryRepository, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, validator: validate, logger: logger}
}

// List returns categories sorted by display order then name.
func (s *CategoryService) List(ctx context.Context, visibleOnly bool) ([]models.SlotCategory, error) {
	categories, err := s.repo.List(ctx, visibleOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// Create stores a new category. Names are unique and stored trimmed.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.SlotCategory, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required")
	}

	category := models.SlotCategory{
		Name:      req.Name,
		Order:     req.Order,
		IsVisible: true,
	}
	if req.IsVisible != nil {
		category.IsVisible = *req.IsVisible
	}
	if err := s.repo.Insert(ctx, &category); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "category name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	return &category, nil
}

// Get loads one category by id.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.SlotCategory, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	return category, nil
}

// Update modifies only the provided category fields. Renaming never rewrites
// slots that already captured the old name.
func (s *CategoryService) Update(ctx context.Context, id string, req UpdateCategoryRequest) (*models.SlotCategory, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
		}
		category.Name = trimmed
	}
	if req.Order != nil {
		category.Order = *req.Order
	}
	if req.IsVisible != nil {
		category.IsVisible = *req.IsVisible
	}
	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "category name already exists")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update category")
	}
	return category, nil
}

// Delete removes a category from the registry.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}
	return nil
}

// Resolve turns caller-supplied category input into the canonical name stored
// on a slot. Empty input falls back to the default. UUID-shaped input must
// reference an existing category. Anything else is treated as a literal name:
// a registered name resolves to its canonical spelling, an unregistered one
// passes through as typed. The registry is advisory, not enforced.
func (s *CategoryService) Resolve(ctx context.Context, input string) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return models.DefaultSlotCategory, nil
	}

	if _, err := uuid.Parse(raw); err == nil {
		category, err := s.repo.FindByID(ctx, raw)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", appErrors.Clone(appErrors.ErrValidation, "invalid category id")
			}
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve category")
		}
		return category.Name, nil
	}

	category, err := s.repo.FindByName(ctx, raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return raw, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve category")
	}
	return category.Name, nil
}
