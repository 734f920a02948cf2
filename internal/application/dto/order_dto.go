package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de una orden nueva.
type OrderItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest body para POST /api/orders. La tienda sale del contexto
// (header X-Store-Id o tienda por defecto), no del body.
type CreateOrderRequest struct {
	CustomerID       string             `json:"customer_id,omitempty"` // vacío = walk-in
	Items            []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountsTotal   decimal.Decimal    `json:"discounts_total"` // se recorta a [0, subtotal]
	TaxRate          decimal.Decimal    `json:"tax_rate"`        // porcentaje, ej. 19
	PrintReceipt     bool               `json:"print_receipt"`
	DeviceIdentifier string             `json:"device_identifier,omitempty"` // requerido si PrintReceipt
}

// OrderItemResponse línea en respuestas.
type OrderItemResponse struct {
	ID         string          `json:"id"`
	VariantID  string          `json:"variant_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse orden con sus líneas y factura.
type OrderResponse struct {
	ID             string              `json:"id"`
	StoreID        string              `json:"store_id"`
	CustomerID     string              `json:"customer_id,omitempty"`
	OrderNumber    string              `json:"order_number"`
	Status         string              `json:"status"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountsTotal decimal.Decimal     `json:"discounts_total"`
	TaxesTotal     decimal.Decimal     `json:"taxes_total"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	Currency       string              `json:"currency"`
	PlacedAt       time.Time           `json:"placed_at"`
	Items          []OrderItemResponse `json:"items"`
	Invoice        *InvoiceResponse    `json:"invoice,omitempty"`
	PrintJobID     string              `json:"print_job_id,omitempty"`
}

// InvoiceResponse factura de la orden.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	IssuedAt      time.Time       `json:"issued_at"`
}
