package dto

import "time"

// SetInventoryRequest body para PUT /api/inventory. Fija la cantidad absoluta
// de la variante en la tienda del contexto.
type SetInventoryRequest struct {
	VariantID    string `json:"variant_id" validate:"required"`
	Quantity     int    `json:"quantity" validate:"min=0"`
	ReorderPoint int    `json:"reorder_point,omitempty" validate:"min=0"`
}

// InventoryResponse existencia en respuestas.
type InventoryResponse struct {
	StoreID      string    `json:"store_id"`
	VariantID    string    `json:"variant_id"`
	Quantity     int       `json:"quantity"`
	ReorderPoint int       `json:"reorder_point,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
