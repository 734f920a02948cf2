package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVariantRequest variante dentro de un producto nuevo.
type CreateVariantRequest struct {
	SKU     string          `json:"sku" validate:"required,min=1,max=64"`
	Barcode string          `json:"barcode,omitempty"`
	Price   decimal.Decimal `json:"price" validate:"required"`
	Cost    decimal.Decimal `json:"cost"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name        string                 `json:"name" validate:"required,min=1,max=160"`
	Description string                 `json:"description,omitempty"`
	CategoryID  string                 `json:"category_id,omitempty"`
	Variants    []CreateVariantRequest `json:"variants,omitempty" validate:"omitempty,dive"`
}

// VariantResponse variante en respuestas.
type VariantResponse struct {
	ID      string          `json:"id"`
	SKU     string          `json:"sku"`
	Barcode string          `json:"barcode,omitempty"`
	Price   decimal.Decimal `json:"price"`
	Cost    decimal.Decimal `json:"cost"`
}

// ProductResponse producto con sus variantes.
type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	CategoryID  string            `json:"category_id,omitempty"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
}
