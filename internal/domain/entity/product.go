package entity

import "time"

// Product artículo del catálogo de un merchant. Los precios viven en las
// variantes; un producto sin variantes no es vendible.
type Product struct {
	ID          string
	MerchantID  string
	CategoryID  string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
