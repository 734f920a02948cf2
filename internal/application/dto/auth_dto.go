package dto

// UserResponse usuario autenticado en respuestas de /api/auth.
type UserResponse struct {
	ID         string `json:"id"`
	SubjectID  string `json:"subject_id"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	MerchantID string `json:"merchant_id"`
	Role       string `json:"role"` // nombre canónico (ADMIN/EMPLOYEE) o vacío
}

// MeResponse usuario más su contexto de tienda resuelto.
type MeResponse struct {
	User          UserResponse    `json:"user"`
	ActiveStore   *StoreResponse  `json:"active_store,omitempty"`
	AccessibleIDs []string        `json:"accessible_store_ids"`
	Stores        []StoreResponse `json:"stores"`
}
