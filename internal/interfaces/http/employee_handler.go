package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/usecase"
)

// EmployeeHandler maneja la administración de empleados y sus grants.
type EmployeeHandler struct {
	uc      *usecase.EmployeeUseCase
	storeUC *usecase.StoreUseCase
}

// NewEmployeeHandler construye el handler.
func NewEmployeeHandler(uc *usecase.EmployeeUseCase, storeUC *usecase.StoreUseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, storeUC: storeUC}
}

// List godoc
// @Summary Lista los usuarios del merchant con sus tiendas asignadas
// @Tags employees
// @Security BearerAuth
// @Success 200 {array} dto.EmployeeResponse
// @Router /api/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.uc.ListEmployees(c.UserContext(), GetStoreContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(employees)
}

// ListStores godoc
// @Summary Tiendas disponibles para asignar (UI de selección)
// @Tags employees
// @Security BearerAuth
// @Success 200 {array} dto.StoreResponse
// @Router /api/employees/stores [get]
func (h *EmployeeHandler) ListStores(c *fiber.Ctx) error {
	return c.JSON(h.storeUC.ListStores(c.UserContext(), GetStoreContext(c)))
}

// UpdateStoreAccess godoc
// @Summary Reemplaza al por mayor las tiendas asignadas a un empleado
// @Tags employees
// @Security BearerAuth
// @Param userId path string true "ID del empleado"
// @Param access body dto.UpdateStoreAccessRequest true "Lista completa de tiendas"
// @Success 200 {object} dto.EmployeeResponse
// @Router /api/employees/{userId}/store-access [put]
func (h *EmployeeHandler) UpdateStoreAccess(c *fiber.Ctx) error {
	var req dto.UpdateStoreAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	employee, err := h.uc.UpdateStoreAccess(c.UserContext(), GetStoreContext(c), c.Params("userId"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(employee)
}
