package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// StoreAccessRepository puerto para los grants user→store (role_permissions).
type StoreAccessRepository interface {
	// ListStoreIDsByUser devuelve los IDs de tienda con grant para el usuario.
	ListStoreIDsByUser(ctx context.Context, userID string) ([]string, error)
	// ReplaceForUser reemplaza al por mayor los grants del usuario:
	// borra todos los existentes e inserta los nuevos en una transacción.
	ReplaceForUser(ctx context.Context, userID string, grants []*entity.StoreAccessGrant) error
}
