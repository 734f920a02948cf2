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

// SupplierUseCase proveedores del merchant. Solo ADMIN gestiona proveedores.
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso de proveedores.
func NewSupplierUseCase(supplierRepo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo}
}

// CreateSupplier registra un proveedor.
func (uc *SupplierUseCase) CreateSupplier(ctx context.Context, sctx *storectx.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.IsAdmin(sctx.User) {
		return nil, domain.ErrForbidden
	}
	supplier := &entity.Supplier{
		ID:         uuid.NewString(),
		MerchantID: sctx.User.MerchantID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		CreatedAt:  time.Now(),
	}
	if err := uc.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("creando proveedor: %w", err)
	}
	return toSupplierResponse(supplier), nil
}

// ListSuppliers proveedores del merchant.
func (uc *SupplierUseCase) ListSuppliers(ctx context.Context, sctx *storectx.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := uc.supplierRepo.ListByMerchant(ctx, sctx.User.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("listando proveedores: %w", err)
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// UpdateSupplier actualiza un proveedor del merchant.
func (uc *SupplierUseCase) UpdateSupplier(ctx context.Context, sctx *storectx.Context, supplierID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.IsAdmin(sctx.User) {
		return nil, domain.ErrForbidden
	}
	supplier, err := uc.findOwned(ctx, sctx, supplierID)
	if err != nil {
		return nil, err
	}
	supplier.Name = in.Name
	supplier.Email = in.Email
	supplier.Phone = in.Phone
	supplier.Address = in.Address
	if err := uc.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("actualizando proveedor: %w", err)
	}
	return toSupplierResponse(supplier), nil
}

// DeleteSupplier elimina un proveedor del merchant.
func (uc *SupplierUseCase) DeleteSupplier(ctx context.Context, sctx *storectx.Context, supplierID string) error {
	if !authz.IsAdmin(sctx.User) {
		return domain.ErrForbidden
	}
	if _, err := uc.findOwned(ctx, sctx, supplierID); err != nil {
		return err
	}
	if err := uc.supplierRepo.Delete(ctx, supplierID); err != nil {
		return fmt.Errorf("eliminando proveedor: %w", err)
	}
	return nil
}

func (uc *SupplierUseCase) findOwned(ctx context.Context, sctx *storectx.Context, supplierID string) (*entity.Supplier, error) {
	supplier, err := uc.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("buscando proveedor: %w", err)
	}
	if supplier == nil || supplier.MerchantID != sctx.User.MerchantID {
		return nil, domain.ErrNotFound
	}
	return supplier, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
	}
}
