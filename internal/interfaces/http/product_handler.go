package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
)

// ProductHandler maneja el catálogo de productos.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary Crea un producto con sus variantes
// @Tags products
// @Security BearerAuth
// @Param product body dto.CreateProductRequest true "Producto"
// @Success 201 {object} dto.ProductResponse
// @Router /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	product, err := h.uc.CreateProduct(c.UserContext(), GetStoreContext(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// Get obtiene un producto por ID.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.uc.GetProduct(c.UserContext(), GetStoreContext(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// List lista el catálogo del merchant.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.uc.ListProducts(c.UserContext(), GetStoreContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}
