package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affcms/festival-api/internal/models"
	"github.com/affcms/festival-api/internal/repository"
	appErrors "github.com/affcms/festival-api/pkg/errors"
)

type categoryRepoStub struct {
	byID   map[string]models.SlotCategory
	byName map[string]models.SlotCategory
	err    error
}

func newCategoryRepoStub(categories ...models.SlotCategory) *categoryRepoStub {
	stub := &categoryRepoStub{
		byID:   make(map[string]models.SlotCategory),
		byName: make(map[string]models.SlotCategory),
	}
	for _, category := range categories {
		stub.byID[category.ID] = category
		stub.byName[category.Name] = category
	}
	return stub
}

func (s *categoryRepoStub) List(ctx context.Context, visibleOnly bool) ([]models.SlotCategory, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.SlotCategory{}
	for _, category := range s.byID {
		if visibleOnly && !category.IsVisible {
			continue
		}
		result = append(result, category)
	}
	return result, nil
}

func (s *categoryRepoStub) FindByID(ctx context.Context, id string) (*models.SlotCategory, error) {
	if s.err != nil {
		return nil, s.err
	}
	category, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &category, nil
}

func (s *categoryRepoStub) FindByName(ctx context.Context, name string) (*models.SlotCategory, error) {
	if s.err != nil {
		return nil, s.err
	}
	category, ok := s.byName[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &category, nil
}

func (s *categoryRepoStub) Insert(ctx context.Context, category *models.SlotCategory) error {
	if s.err != nil {
		return s.err
	}
	if _, exists := s.byName[category.Name]; exists {
		return repository.ErrDuplicateName
	}
	if category.ID == "" {
		category.ID = "cat-" + strings.ToLower(category.Name)
	}
	s.byID[category.ID] = *category
	s.byName[category.Name] = *category
	return nil
}

func (s *categoryRepoStub) Update(ctx context.Context, category *models.SlotCategory) error {
	if s.err != nil {
		return s.err
	}
	old, ok := s.byID[category.ID]
	if !ok {
		return sql.ErrNoRows
	}
	delete(s.byName, old.Name)
	s.byID[category.ID] = *category
	s.byName[category.Name] = *category
	return nil
}

func (s *categoryRepoStub) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	category, ok := s.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	delete(s.byID, id)
	delete(s.byName, category.Name)
	return nil
}

const filmCategoryID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func newTestCategoryService(repo *categoryRepoStub) *CategoryService {
	return NewCategoryService(repo, validator.New(), nil)
}

func TestCategoryServiceCreateTrimsName(t *testing.T) {
	service := newTestCategoryService(newCategoryRepoStub())
	category, err := service.Create(context.Background(), CreateCategoryRequest{Name: "  Workshop  "})
	require.NoError(t, err)
	assert.Equal(t, "Workshop", category.Name)
	assert.True(t, category.IsVisible)
}

func TestCategoryServiceCreateRejectsDuplicate(t *testing.T) {
	repo := newCategoryRepoStub(models.SlotCategory{ID: filmCategoryID, Name: "Film", IsVisible: true})
	service := newTestCategoryService(repo)

	_, err := service.Create(context.Background(), CreateCategoryRequest{Name: "Film"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "category name already exists", appErr.Message)
}

func TestCategoryServiceCreateRequiresName(t *testing.T) {
	service := newTestCategoryService(newCategoryRepoStub())
	_, err := service.Create(context.Background(), CreateCategoryRequest{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCategoryServiceUpdateNotFound(t *testing.T) {
	service := newTestCategoryService(newCategoryRepoStub())
	name := "Panel"
	_, err := service.Update(context.Background(), "missing", UpdateCategoryRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCategoryServiceResolveDefaultsWhenEmpty(t *testing.T) {
	service := newTestCategoryService(newCategoryRepoStub())
	for _, input := range []string{"", "   "} {
		name, err := service.Resolve(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultSlotCategory, name)
	}
}

func TestCategoryServiceResolveByID(t *testing.T) {
	repo := newCategoryRepoStub(models.SlotCategory{ID: filmCategoryID, Name: "Film", IsVisible: true})
	service := newTestCategoryService(repo)

	name, err := service.Resolve(context.Background(), filmCategoryID)
	require.NoError(t, err)
	assert.Equal(t, "Film", name)
}

func TestCategoryServiceResolveUnknownIDFails(t *testing.T) {
	service := newTestCategoryService(newCategoryRepoStub())
	_, err := service.Resolve(context.Background(), "123e4567-e89b-12d3-a456-426614174000")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "invalid category id", appErr.Message)
}

func TestCategoryServiceResolveCanonicalisesKnownName(t *testing.T) {
	repo := newCategoryRepoStub(models.SlotCategory{ID: filmCategoryID, Name: "Film", IsVisible: true})
	service := newTestCategoryService(repo)

	name, err := service.Resolve(context.Background(), "  Film ")
	require.NoError(t, err)
	assert.Equal(t, "Film", name)
}

func TestCategoryServiceResolvePassesThroughUnknownName(t *testing.T) {
	service := newTestCategoryService(newCategoryRepoStub())
	name, err := service.Resolve(context.Background(), "Masterclass")
	require.NoError(t, err)
	assert.Equal(t, "Masterclass", name)
}

func TestCategoryServiceResolveIsDeterministic(t *testing.T) {
	repo := newCategoryRepoStub(models.SlotCategory{ID: filmCategoryID, Name: "Film", IsVisible: true})
	service := newTestCategoryService(repo)

	first, err := service.Resolve(context.Background(), "Film")
	require.NoError(t, err)
	second, err := service.Resolve(context.Background(), "Film")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
