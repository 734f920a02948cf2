package entity

import "time"

// User principal autenticado, ligado 1:1 a un sujeto del proveedor de identidad
// y N:1 a un merchant. RoleName puede ser vacío (usuario legado sin rol migrado).
type User struct {
	ID         string
	SubjectID  string // id del sujeto en el proveedor de identidad (único)
	Email      string
	FullName   string
	MerchantID string
	RoleID     string
	RoleName   string // nombre crudo del rol; normalizar con authz.Normalize
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
