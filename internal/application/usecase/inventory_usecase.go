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

// InventoryUseCase existencias por tienda. El descuento por venta vive en
// ordering; aquí solo consultas y ajustes absolutos del backoffice.
type InventoryUseCase struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
}

// NewInventoryUseCase construye el caso de uso de inventario.
func NewInventoryUseCase(inventoryRepo repository.InventoryRepository, productRepo repository.ProductRepository) *InventoryUseCase {
	return &InventoryUseCase{inventoryRepo: inventoryRepo, productRepo: productRepo}
}

// ListInventory existencias de la tienda activa.
func (uc *InventoryUseCase) ListInventory(ctx context.Context, sctx *storectx.Context) ([]dto.InventoryResponse, error) {
	if !authz.HasPermission(sctx.User, authz.PermViewInventory) {
		return nil, domain.ErrForbidden
	}
	if sctx.Store == nil {
		return nil, domain.ErrNoStoreAssigned
	}
	rows, err := uc.inventoryRepo.ListByStore(ctx, sctx.Store.ID)
	if err != nil {
		return nil, fmt.Errorf("listando inventario: %w", err)
	}
	out := make([]dto.InventoryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InventoryResponse{
			StoreID:      r.StoreID,
			VariantID:    r.VariantID,
			Quantity:     r.Quantity,
			ReorderPoint: r.ReorderPoint,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out, nil
}

// SetInventory fija la cantidad absoluta de una variante en la tienda activa.
func (uc *InventoryUseCase) SetInventory(ctx context.Context, sctx *storectx.Context, in dto.SetInventoryRequest) (*dto.InventoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermUpdateInventory) {
		return nil, domain.ErrForbidden
	}
	if sctx.Store == nil {
		return nil, domain.ErrNoStoreAssigned
	}
	variant, err := uc.productRepo.GetVariantByID(ctx, in.VariantID)
	if err != nil {
		return nil, fmt.Errorf("buscando variante: %w", err)
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, variant.ProductID)
	if err != nil {
		return nil, fmt.Errorf("buscando producto: %w", err)
	}
	if product == nil || product.MerchantID != sctx.User.MerchantID {
		return nil, domain.ErrNotFound
	}

	inv := &entity.Inventory{
		ID:           uuid.NewString(),
		StoreID:      sctx.Store.ID,
		VariantID:    in.VariantID,
		Quantity:     in.Quantity,
		ReorderPoint: in.ReorderPoint,
		UpdatedAt:    time.Now(),
	}
	if err := uc.inventoryRepo.Upsert(ctx, inv); err != nil {
		return nil, fmt.Errorf("guardando inventario: %w", err)
	}
	return &dto.InventoryResponse{
		StoreID:      inv.StoreID,
		VariantID:    inv.VariantID,
		Quantity:     inv.Quantity,
		ReorderPoint: inv.ReorderPoint,
		UpdatedAt:    inv.UpdatedAt,
	}, nil
}
