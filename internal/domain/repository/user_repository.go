package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios. Las consultas traen el
// nombre del rol ya unido (join a roles) para no duplicar lookups.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetBySubjectID(ctx context.Context, subjectID string) (*entity.User, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*entity.User, error)
	CountByMerchant(ctx context.Context, merchantID string) (int64, error)
	Create(ctx context.Context, user *entity.User) error
	// UpdateRole cambia el rol asignado (cuando el header de sesión trae otro rol).
	UpdateRole(ctx context.Context, userID, roleID string) error
}
