// Package authz implementa el modelo de autorización por rol y tienda.
//
// Todas las funciones son puras: dependen solo de sus argumentos, sin I/O,
// para poder testearlas de forma aislada. El nombre crudo del rol se
// normaliza UNA sola vez en la frontera con Normalize; el resto del sistema
// compara contra el enum cerrado Role, nunca contra strings libres.
package authz

import (
	"strings"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// Role enum cerrado de roles lógicos.
type Role int

const (
	// RoleUnknown rol ausente o no reconocido.
	RoleUnknown Role = iota
	// RoleAdmin acceso total dentro de su merchant.
	RoleAdmin
	// RoleEmployee acceso limitado a las tiendas de su lista de acceso.
	RoleEmployee
)

// Nombres canónicos persistidos en la tabla roles.
const (
	RoleNameAdmin    = "ADMIN"
	RoleNameEmployee = "EMPLOYEE"
)

// String devuelve el nombre canónico del rol.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return RoleNameAdmin
	case RoleEmployee:
		return RoleNameEmployee
	default:
		return "UNKNOWN"
	}
}

// Normalize mapea un nombre de rol crudo al enum cerrado. Acepta los nombres
// canónicos y los sinónimos nativos del proveedor de identidad
// (org:admin/admin/owner y org:employee/employee/staff), sin distinguir
// mayúsculas. Cualquier otro valor, incluido vacío, es RoleUnknown.
func Normalize(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "org:admin", "admin", "owner":
		return RoleAdmin
	case "org:employee", "employee", "staff":
		return RoleEmployee
	default:
		return RoleUnknown
	}
}

// Permisos con nombre que se consultan vía HasPermission.
const (
	PermProcessSales    = "process_sales"
	PermViewInventory   = "view_inventory"
	PermUpdateInventory = "update_inventory"
	PermManageCustomers = "manage_customers"
	PermViewReports     = "view_reports"
	PermManageStores    = "manage_stores"
	PermManageEmployees = "manage_employees"
	PermManageProducts  = "manage_products"
	PermExportReports   = "export_reports"
	PermRefundSales     = "refund_sales"
)

// employeePermissions tabla fija de permisos del rol EMPLOYEE.
var employeePermissions = map[string]bool{
	PermProcessSales:    true,
	PermViewInventory:   true,
	PermUpdateInventory: true,
	PermManageCustomers: true,
	PermViewReports:     true,
	PermManageStores:    false,
	PermManageEmployees: false,
	PermManageProducts:  false,
	PermExportReports:   false,
	PermRefundSales:     false,
}

// IsAdmin indica si el usuario tiene rol ADMIN (o su sinónimo del proveedor).
func IsAdmin(user *entity.User) bool {
	return user != nil && Normalize(user.RoleName) == RoleAdmin
}

// IsEmployee indica si el usuario tiene rol EMPLOYEE.
func IsEmployee(user *entity.User) bool {
	return user != nil && Normalize(user.RoleName) == RoleEmployee
}

// HasPermission verifica un permiso con nombre. ADMIN: todo permitido.
// EMPLOYEE: tabla fija. Rol ausente o desconocido: siempre denegado.
func HasPermission(user *entity.User, permission string) bool {
	if user == nil || permission == "" {
		return false
	}
	switch Normalize(user.RoleName) {
	case RoleAdmin:
		return true
	case RoleEmployee:
		return employeePermissions[strings.ToLower(permission)]
	default:
		return false
	}
}

// CanAccessStore indica si el usuario puede operar sobre la tienda.
// ADMIN: siempre. EMPLOYEE: solo si storeID está en su set de acceso.
// Cualquier otro rol: nunca.
func CanAccessStore(user *entity.User, storeID string, access map[string]struct{}) bool {
	if user == nil || storeID == "" {
		return false
	}
	switch Normalize(user.RoleName) {
	case RoleAdmin:
		return true
	case RoleEmployee:
		if access == nil {
			return false
		}
		_, ok := access[storeID]
		return ok
	default:
		return false
	}
}

// FilterAccessibleStores devuelve, en el orden de entrada, las tiendas que el
// usuario puede ver.
//
// OJO: cuando el rol es ausente o desconocido esta función devuelve TODAS las
// tiendas (fail-open), al contrario que HasPermission que deniega. Es un shim
// de compatibilidad para usuarios creados antes del sistema de roles; la
// asimetría es deliberada y está cubierta por tests para que no se "corrija"
// por accidente.
func FilterAccessibleStores(user *entity.User, allStores []*entity.Store, access map[string]struct{}) []*entity.Store {
	if user == nil || allStores == nil {
		return []*entity.Store{}
	}
	switch Normalize(user.RoleName) {
	case RoleAdmin:
		return allStores
	case RoleEmployee:
		if len(access) == 0 {
			return []*entity.Store{}
		}
		filtered := make([]*entity.Store, 0, len(allStores))
		for _, s := range allStores {
			if _, ok := access[s.ID]; ok {
				filtered = append(filtered, s)
			}
		}
		return filtered
	default:
		return allStores
	}
}

// AccessSet construye un set de acceso a partir de IDs de tienda.
func AccessSet(storeIDs ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
