package entity

import "time"

// Category agrupación jerárquica de productos por merchant.
type Category struct {
	ID         string
	MerchantID string
	ParentID   string // vacío = categoría raíz
	Name       string
	CreatedAt  time.Time
}
