package entity

import "time"

// Inventory nivel de stock de una variante en una tienda (clave store+variant).
type Inventory struct {
	ID           string
	StoreID      string
	VariantID    string
	Quantity     int
	Reserved     int
	ReorderPoint int
	UpdatedAt    time.Time
}
