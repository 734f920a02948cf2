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

// CustomerUseCase clientes del merchant.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso de clientes.
func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

// CreateCustomer registra un cliente en la tienda activa.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, sctx *storectx.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermManageCustomers) {
		return nil, domain.ErrForbidden
	}
	if sctx.Store == nil {
		return nil, domain.ErrNoStoreAssigned
	}
	customer := &entity.Customer{
		ID:         uuid.NewString(),
		MerchantID: sctx.User.MerchantID,
		StoreID:    sctx.Store.ID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		CreatedAt:  time.Now(),
	}
	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("creando cliente: %w", err)
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers clientes del merchant.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, sctx *storectx.Context) ([]dto.CustomerResponse, error) {
	customers, err := uc.customerRepo.ListByMerchant(ctx, sctx.User.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("listando clientes: %w", err)
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// UpdateCustomer actualiza los datos de contacto de un cliente del merchant.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, sctx *storectx.Context, customerID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermManageCustomers) {
		return nil, domain.ErrForbidden
	}
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("buscando cliente: %w", err)
	}
	if customer == nil || customer.MerchantID != sctx.User.MerchantID {
		return nil, domain.ErrNotFound
	}
	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("actualizando cliente: %w", err)
	}
	return toCustomerResponse(customer), nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		StoreID: c.StoreID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
	}
}
