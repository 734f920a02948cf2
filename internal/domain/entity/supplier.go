package entity

import "time"

// Supplier proveedor de mercancía de un merchant.
type Supplier struct {
	ID         string
	MerchantID string
	Name       string
	Email      string
	Phone      string
	Address    string
	CreatedAt  time.Time
}
