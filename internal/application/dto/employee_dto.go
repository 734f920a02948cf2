package dto

// EmployeeResponse usuario del merchant con su lista de acceso a tiendas.
type EmployeeResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	Role     string   `json:"role"`
	StoreIDs []string `json:"store_ids"`
}

// UpdateStoreAccessRequest body para PUT /api/employees/:id/stores.
// Reemplaza al por mayor la lista completa de tiendas del empleado.
type UpdateStoreAccessRequest struct {
	StoreIDs []string `json:"store_ids" validate:"required"`
}
