package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
)

// InventoryHandler maneja el stock de la tienda activa.
type InventoryHandler struct {
	uc *usecase.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *usecase.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// List godoc
// @Summary Lista el inventario de la tienda activa
// @Tags inventory
// @Security BearerAuth
// @Success 200 {array} dto.InventoryResponse
// @Router /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.ListInventory(c.UserContext(), GetStoreContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Set godoc
// @Summary Fija la cantidad absoluta de una variante en la tienda activa
// @Tags inventory
// @Security BearerAuth
// @Param inventory body dto.SetInventoryRequest true "Stock"
// @Success 200 {object} dto.InventoryResponse
// @Router /api/inventory [put]
func (h *InventoryHandler) Set(c *fiber.Ctx) error {
	var req dto.SetInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	item, err := h.uc.SetInventory(c.UserContext(), GetStoreContext(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}
