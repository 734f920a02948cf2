package repository

import (
	"context"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// RoleRepository puerto de persistencia para roles.
type RoleRepository interface {
	// GetByName busca por nombre sin distinguir mayúsculas.
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	Create(ctx context.Context, role *entity.Role) error
}
