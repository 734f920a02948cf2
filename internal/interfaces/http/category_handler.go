package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
)

// CategoryHandler maneja las categorías del catálogo.
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create crea una categoría (padre opcional).
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	category, err := h.uc.CreateCategory(c.UserContext(), GetStoreContext(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// List lista las categorías del merchant.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.uc.ListCategories(c.UserContext(), GetStoreContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(categories)
}
