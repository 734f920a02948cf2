package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order venta registrada en una tienda. Siempre genera exactamente una Invoice.
type Order struct {
	ID             string
	MerchantID     string
	StoreID        string
	CustomerID     string // vacío = walk-in
	OrderNumber    string
	Status         string // paid, pending, refunded
	Subtotal       decimal.Decimal
	DiscountsTotal decimal.Decimal
	TaxesTotal     decimal.Decimal
	TotalAmount    decimal.Decimal
	Currency       string
	PlacedAt       time.Time
	FulfilledAt    *time.Time
}

// OrderItem línea de una orden; el precio unitario se congela al vender.
type OrderItem struct {
	ID             string
	OrderID        string
	VariantID      string
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountsTotal decimal.Decimal
	TaxesTotal     decimal.Decimal
	TotalPrice     decimal.Decimal
}
