package printing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptLine línea del recibo impreso.
type ReceiptLine struct {
	Name       string          `json:"name"`
	SKU        string          `json:"sku,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ReceiptPayload snapshot completo de la venta que viaja dentro del print job.
// Se congela al encolar: el agente imprime exactamente esto aunque la orden
// cambie después. El mismo tipo lo deserializa el agente para renderizar.
type ReceiptPayload struct {
	StoreName      string          `json:"store_name"`
	StoreAddress   string          `json:"store_address,omitempty"`
	OrderNumber    string          `json:"order_number"`
	InvoiceNumber  string          `json:"invoice_number"`
	Lines          []ReceiptLine   `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountsTotal decimal.Decimal `json:"discounts_total"`
	TaxesTotal     decimal.Decimal `json:"taxes_total"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	IssuedAt       time.Time       `json:"issued_at"`
}
