package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice comprobante fiscal de una orden (1:1).
type Invoice struct {
	ID            string
	OrderID       string
	MerchantID    string
	StoreID       string
	InvoiceNumber string // INV-<orderNumber>
	Total         decimal.Decimal
	Currency      string
	IssuedAt      time.Time
}
