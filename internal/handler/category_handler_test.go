package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affcms/festival-api/internal/models"
	"github.com/affcms/festival-api/internal/repository"
	"github.com/affcms/festival-api/internal/service"
)

type categoryRepoFake struct {
	categories map[string]models.SlotCategory
}

func newCategoryRepoFake(categories ...models.SlotCategory) *categoryRepoFake {
	fake := &categoryRepoFake{categories: make(map[string]models.SlotCategory)}
	for _, category := range categories {
		fake.categories[category.ID] = category
	}
	return fake
}

func (f *categoryRepoFake) List(ctx context.Context, visibleOnly bool) ([]models.SlotCategory, error) {
	result := []models.SlotCategory{}
	for _, category := range f.categories {
		if visibleOnly && !category.IsVisible {
			continue
		}
		result = append(result, category)
	}
	return result, nil
}

func (f *categoryRepoFake) FindByID(ctx context.Context, id string) (*models.SlotCategory, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &category, nil
}

func (f *categoryRepoFake) FindByName(ctx context.Context, name string) (*models.SlotCategory, error) {
	for _, category := range f.categories {
		if category.Name == name {
			return &category, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *categoryRepoFake) Insert(ctx context.Context, category *models.SlotCategory) error {
	for _, existing := range f.categories {
		if existing.Name == category.Name {
			return repository.ErrDuplicateName
		}
	}
	if category.ID == "" {
		category.ID = "cat-new"
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *categoryRepoFake) Update(ctx context.Context, category *models.SlotCategory) error {
	if _, ok := f.categories[category.ID]; !ok {
		return sql.ErrNoRows
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *categoryRepoFake) Delete(ctx context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.categories, id)
	return nil
}

func buildCategoryRouter(repo *categoryRepoFake) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoryHandler(service.NewCategoryService(repo, nil, nil))

	router := gin.New()
	router.GET("/categories", h.List)
	router.POST("/categories", h.Create)
	router.GET("/categories/:categoryId", h.Get)
	router.PUT("/categories/:categoryId", h.Update)
	router.DELETE("/categories/:categoryId", h.Delete)
	return router
}

func TestCategoryHandlerList(t *testing.T) {
	router := buildCategoryRouter(newCategoryRepoFake(
		models.SlotCategory{ID: "cat-1", Name: "Film", IsVisible: true},
	))

	req, _ := http.NewRequest(http.MethodGet, "/categories", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"name":"Film"`)
}

func TestCategoryHandlerCreateDuplicate(t *testing.T) {
	router := buildCategoryRouter(newCategoryRepoFake(
		models.SlotCategory{ID: "cat-1", Name: "Film", IsVisible: true},
	))

	req := jsonRequest(http.MethodPost, "/categories", service.CreateCategoryRequest{Name: "Film"})
	resp := performRequest(router, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "category name already exists")
}

func TestCategoryHandlerGetNotFound(t *testing.T) {
	router := buildCategoryRouter(newCategoryRepoFake())

	req, _ := http.NewRequest(http.MethodGet, "/categories/missing", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCategoryHandlerDelete(t *testing.T) {
	router := buildCategoryRouter(newCategoryRepoFake(
		models.SlotCategory{ID: "cat-1", Name: "Film", IsVisible: true},
	))

	req, _ := http.NewRequest(http.MethodDelete, "/categories/cat-1", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusNoContent, resp.Code)
}
