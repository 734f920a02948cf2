package entity

import "time"

// Customer cliente registrado en una tienda. Las ventas sin cliente quedan
// como "walk-in" (orden con CustomerID vacío).
type Customer struct {
	ID         string
	MerchantID string
	StoreID    string
	Name       string
	Email      string
	Phone      string
	CreatedAt  time.Time
}
