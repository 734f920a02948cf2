package entity

import "time"

// Merchant raíz de tenancy: todo dato del sistema pertenece a exactamente un merchant.
// El ID puede ser el identificador de organización del proveedor de identidad
// (ej. org_35kd0au4TlJlAqCgWuBeVOmVYcN) o un UUID generado si no hay organización.
type Merchant struct {
	ID        string
	Name      string
	Currency  string // moneda por defecto de las tiendas
	CreatedAt time.Time
}
