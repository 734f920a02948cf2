package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
)

// CustomerHandler maneja los clientes del merchant.
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create registra un cliente asociado a la tienda activa.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	customer, err := h.uc.CreateCustomer(c.UserContext(), GetStoreContext(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// List lista los clientes del merchant.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	customers, err := h.uc.ListCustomers(c.UserContext(), GetStoreContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customers)
}

// Update actualiza los datos de contacto de un cliente.
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	customer, err := h.uc.UpdateCustomer(c.UserContext(), GetStoreContext(c), c.Params("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}
