package entity

import "time"

// Store sucursal de un merchant; unidad de alcance de inventario y ventas.
type Store struct {
	ID         string
	MerchantID string
	Name       string
	Address    string
	Phone      string
	Timezone   string
	Currency   string // hereda la del merchant si no se especifica
	CreatedAt  time.Time
}
