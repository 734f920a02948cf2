package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
)

// StoreHandler maneja las peticiones HTTP de tiendas.
type StoreHandler struct {
	uc *usecase.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

// List godoc
// @Summary Lista las tiendas visibles para el usuario
// @Tags stores
// @Security BearerAuth
// @Success 200 {array} dto.StoreResponse
// @Router /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListStores(c.UserContext(), GetStoreContext(c)))
}

// Get godoc
// @Summary Obtiene una tienda por ID (dentro del alcance del usuario)
// @Tags stores
// @Security BearerAuth
// @Param id path string true "ID de la tienda"
// @Success 200 {object} dto.StoreResponse
// @Router /api/stores/{id} [get]
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	store, err := h.uc.GetStore(c.UserContext(), GetStoreContext(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(store)
}

// Create godoc
// @Summary Crea una tienda del merchant (requiere manage_stores)
// @Tags stores
// @Security BearerAuth
// @Param store body dto.CreateStoreRequest true "Tienda"
// @Success 201 {object} dto.StoreResponse
// @Router /api/stores [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	store, err := h.uc.CreateStore(c.UserContext(), GetStoreContext(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}
