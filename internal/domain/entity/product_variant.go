package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant SKU vendible de un producto (talla, color, presentación).
type ProductVariant struct {
	ID        string
	ProductID string
	SKU       string
	Barcode   string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	CreatedAt time.Time
}
