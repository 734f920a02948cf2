package entity

import "time"

// StoreAccessGrant mapea un usuario EMPLOYEE a una tienda a la que tiene acceso
// (tabla role_permissions, par user/store único). Los ADMIN no necesitan filas:
// tienen acceso implícito a todas las tiendas de su merchant.
// El reemplazo es al por mayor: borrar todo y re-insertar, nunca un diff.
type StoreAccessGrant struct {
	ID        string
	UserID    string
	StoreID   string
	CreatedAt time.Time
}
