package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/storectx"
	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/authz"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

// EmployeeUseCase gestión de empleados y de sus grants de tienda.
type EmployeeUseCase struct {
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	accessRepo repository.StoreAccessRepository
}

// NewEmployeeUseCase construye el caso de uso de empleados.
func NewEmployeeUseCase(userRepo repository.UserRepository, storeRepo repository.StoreRepository, accessRepo repository.StoreAccessRepository) *EmployeeUseCase {
	return &EmployeeUseCase{userRepo: userRepo, storeRepo: storeRepo, accessRepo: accessRepo}
}

// ListEmployees usuarios del merchant con sus tiendas asignadas.
func (uc *EmployeeUseCase) ListEmployees(ctx context.Context, sctx *storectx.Context) ([]dto.EmployeeResponse, error) {
	if !authz.HasPermission(sctx.User, authz.PermManageEmployees) {
		return nil, domain.ErrForbidden
	}
	users, err := uc.userRepo.ListByMerchant(ctx, sctx.User.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("listando usuarios: %w", err)
	}
	out := make([]dto.EmployeeResponse, 0, len(users))
	for _, u := range users {
		storeIDs, err := uc.accessRepo.ListStoreIDsByUser(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("listando grants de %s: %w", u.ID, err)
		}
		if storeIDs == nil {
			storeIDs = []string{}
		}
		out = append(out, dto.EmployeeResponse{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.RoleName,
			StoreIDs: storeIDs,
		})
	}
	return out, nil
}

// UpdateStoreAccess reemplaza al por mayor la lista de tiendas del empleado.
// Cada tienda del request debe pertenecer al merchant; una lista vacía deja
// al empleado sin acceso a ninguna tienda.
func (uc *EmployeeUseCase) UpdateStoreAccess(ctx context.Context, sctx *storectx.Context, employeeID string, in dto.UpdateStoreAccessRequest) (*dto.EmployeeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermManageEmployees) {
		return nil, domain.ErrForbidden
	}
	employee, err := uc.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("buscando empleado: %w", err)
	}
	if employee == nil || employee.MerchantID != sctx.User.MerchantID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	grants := make([]*entity.StoreAccessGrant, 0, len(in.StoreIDs))
	for _, storeID := range in.StoreIDs {
		store, err := uc.storeRepo.GetByID(ctx, storeID)
		if err != nil {
			return nil, fmt.Errorf("buscando tienda %s: %w", storeID, err)
		}
		if store == nil || store.MerchantID != sctx.User.MerchantID {
			return nil, fmt.Errorf("%w: tienda %s", domain.ErrInvalidInput, storeID)
		}
		grants = append(grants, &entity.StoreAccessGrant{
			ID:        uuid.NewString(),
			UserID:    employee.ID,
			StoreID:   storeID,
			CreatedAt: now,
		})
	}
	if err := uc.accessRepo.ReplaceForUser(ctx, employee.ID, grants); err != nil {
		return nil, fmt.Errorf("reemplazando grants: %w", err)
	}
	storeIDs := make([]string, 0, len(grants))
	for _, g := range grants {
		storeIDs = append(storeIDs, g.StoreID)
	}
	return &dto.EmployeeResponse{
		ID:       employee.ID,
		Email:    employee.Email,
		FullName: employee.FullName,
		Role:     employee.RoleName,
		StoreIDs: storeIDs,
	}, nil
}
