package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/ordering"
)

// OrderHandler maneja el checkout y la consulta de órdenes.
type OrderHandler struct {
	uc *ordering.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *ordering.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary Registra una venta: orden, stock, factura y recibo opcional
// @Tags orders
// @Security BearerAuth
// @Param order body dto.CreateOrderRequest true "Orden"
// @Success 201 {object} dto.OrderResponse
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	order, err := h.uc.CreateOrder(c.UserContext(), GetStoreContext(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Reprint godoc
// @Summary Reimprime el recibo de una orden existente
// @Description El servidor reconstruye el recibo desde la orden persistida; el body solo indica el dispositivo.
// @Tags orders
// @Security BearerAuth
// @Param orderId path string true "ID de la orden"
// @Param target body dto.ReprintReceiptRequest true "Dispositivo destino"
// @Success 201 {object} dto.JobResponse
// @Router /api/print-jobs/{orderId} [post]
func (h *OrderHandler) Reprint(c *fiber.Ctx) error {
	var req dto.ReprintReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	job, err := h.uc.ReprintReceipt(c.UserContext(), GetStoreContext(c), c.Params("orderId"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// Get godoc
// @Summary Obtiene una orden con sus líneas y factura
// @Tags orders
// @Security BearerAuth
// @Param id path string true "ID de la orden"
// @Success 200 {object} dto.OrderResponse
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.UserContext(), GetStoreContext(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

// List godoc
// @Summary Lista las órdenes recientes de la tienda activa
// @Tags orders
// @Security BearerAuth
// @Param limit query int false "Máximo de órdenes (default 50)"
// @Success 200 {array} dto.OrderResponse
// @Router /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.uc.ListOrders(c.UserContext(), GetStoreContext(c), c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(orders)
}
