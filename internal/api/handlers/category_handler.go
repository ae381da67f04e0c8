package handlers

import (
	"errors"

	"financer/internal/dto"
	"financer/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Security Bearer
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/categories [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.categoryService.Create(c.Context(), &req)
	if err != nil {
		return h.fail(c, "Failed to create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CategoryResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	resp, err := h.categoryService.List(c.Context())
	if err != nil {
		return h.fail(c, "Failed to list categories", err)
	}
	return c.JSON(resp)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Security Bearer
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid category ID")
	}

	resp, err := h.categoryService.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, "Failed to get category", err)
	}
	return c.JSON(resp)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Security Bearer
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid category ID")
	}

	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.categoryService.Update(c.Context(), id, &req)
	if err != nil {
		return h.fail(c, "Failed to update category", err)
	}
	return c.JSON(resp)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Transactions keep existing and lose their category
// @Tags categories
// @Param id path int true "Category ID"
// @Security Bearer
// @Success 204 {string} string "No Content"
// @Failure 404 {object} map[string]string
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid category ID")
	}

	if err := h.categoryService.Delete(c.Context(), id); err != nil {
		return h.fail(c, "Failed to delete category", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CategoryHandler) fail(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		return errorResponse(c, fiber.StatusNotFound, "Category not found")
	case errors.Is(err, service.ErrCategoryExists):
		return errorResponse(c, fiber.StatusConflict, "Category already exists")
	case errors.Is(err, service.ErrInvalidCategory):
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	h.logger.Error(message, zap.Error(err))
	return errorResponse(c, fiber.StatusInternalServerError, message)
}
