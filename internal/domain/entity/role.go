package entity

import "time"

// Role clase de capacidades con nombre. Valores canónicos: ADMIN, EMPLOYEE.
// Se auto-provisiona al primer encuentro de un nombre nuevo.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
