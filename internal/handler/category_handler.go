package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/affcms/festival-api/internal/service"
	appErrors "github.com/affcms/festival-api/pkg/errors"
	"github.com/affcms/festival-api/pkg/response"
)

// CategoryHandler manages slot category endpoints.
type CategoryHandler struct {
	service *service.CategoryService
}

// NewCategoryHandler constructs handler.
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// List godoc
// @Summary List slot categories
// @Tags Categories
// @Produce json
// @Param visible query bool false "Only publicly visible categories"
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	visibleOnly := c.Query("visible") == "true"
	categories, err := h.service.List(c.Request.Context(), visibleOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories)
}

// Create godoc
// @Summary Create slot category
// @Tags Categories
// @Accept json
// @Produce json
// @Param payload body service.CreateCategoryRequest true "Category payload"
// @Success 201 {object} response.Envelope
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	category, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// Get godoc
// @Summary Get slot category
// @Tags Categories
// @Produce json
// @Param categoryId path string true "Category ID"
// @Success 200 {object} response.Envelope
// @Router /categories/{categoryId} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.service.Get(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category)
}

// Update godoc
// @Summary Update slot category
// @Tags Categories
// @Accept json
// @Produce json
// @Param categoryId path string true "Category ID"
// @Param payload body service.UpdateCategoryRequest true "Category payload"
// @Success 200 {object} response.Envelope
// @Router /categories/{categoryId} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	category, err := h.service.Update(c.Request.Context(), c.Param("categoryId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category)
}

// Delete godoc
// @Summary Delete slot category
// @Description Removes a category from the registry. Slots keep whatever
// @Description category name they were saved with.
// @Tags Categories
// @Produce json
// @Param categoryId path string true "Category ID"
// @Success 204
// @Router /categories/{categoryId} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("categoryId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
