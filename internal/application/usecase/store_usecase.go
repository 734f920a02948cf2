// Package usecase casos de uso CRUD del backoffice (tiendas, empleados,
// catálogo, clientes, proveedores, inventario). La lógica con transacciones
// o estado vive en paquetes propios (ordering, printing).
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

// StoreUseCase gestión de tiendas.
type StoreUseCase struct {
	storeRepo    repository.StoreRepository
	merchantRepo repository.MerchantRepository
}

// NewStoreUseCase construye el caso de uso de tiendas.
func NewStoreUseCase(storeRepo repository.StoreRepository, merchantRepo repository.MerchantRepository) *StoreUseCase {
	return &StoreUseCase{storeRepo: storeRepo, merchantRepo: merchantRepo}
}

// ListStores tiendas visibles para el usuario, ya filtradas por el contexto.
func (uc *StoreUseCase) ListStores(_ context.Context, sctx *storectx.Context) []dto.StoreResponse {
	out := make([]dto.StoreResponse, 0, len(sctx.Accessible))
	for _, s := range sctx.Accessible {
		out = append(out, toStoreResponse(s))
	}
	return out
}

// GetStore una tienda dentro del alcance del usuario.
func (uc *StoreUseCase) GetStore(_ context.Context, sctx *storectx.Context, storeID string) (*dto.StoreResponse, error) {
	for _, s := range sctx.Accessible {
		if s.ID == storeID {
			resp := toStoreResponse(s)
			return &resp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// CreateStore crea una tienda del merchant. Hereda la moneda del merchant si
// el request no trae una.
func (uc *StoreUseCase) CreateStore(ctx context.Context, sctx *storectx.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermManageStores) {
		return nil, domain.ErrForbidden
	}
	currency := in.Currency
	if currency == "" {
		merchant, err := uc.merchantRepo.GetByID(ctx, sctx.User.MerchantID)
		if err != nil {
			return nil, fmt.Errorf("buscando merchant: %w", err)
		}
		if merchant != nil {
			currency = merchant.Currency
		}
	}
	store := &entity.Store{
		ID:         uuid.NewString(),
		MerchantID: sctx.User.MerchantID,
		Name:       in.Name,
		Address:    in.Address,
		Phone:      in.Phone,
		Timezone:   in.Timezone,
		Currency:   currency,
		CreatedAt:  time.Now(),
	}
	if err := uc.storeRepo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("creando tienda: %w", err)
	}
	resp := toStoreResponse(store)
	return &resp, nil
}

func toStoreResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Timezone:  s.Timezone,
		Currency:  s.Currency,
		CreatedAt: s.CreatedAt,
	}
}
