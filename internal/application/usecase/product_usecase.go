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

// ProductUseCase catálogo de productos y variantes.
type ProductUseCase struct {
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	storeRepo     repository.StoreRepository
	inventoryRepo repository.InventoryRepository
}

// NewProductUseCase construye el caso de uso de productos.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	storeRepo repository.StoreRepository,
	inventoryRepo repository.InventoryRepository,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		storeRepo:     storeRepo,
		inventoryRepo: inventoryRepo,
	}
}

// CreateProduct crea un producto con sus variantes iniciales.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, sctx *storectx.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermManageProducts) {
		return nil, domain.ErrForbidden
	}
	if in.CategoryID != "" {
		cat, err := uc.categoryRepo.GetByID(ctx, in.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("buscando categoría: %w", err)
		}
		if cat == nil || cat.MerchantID != sctx.User.MerchantID {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrInvalidInput, in.CategoryID)
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.NewString(),
		MerchantID:  sctx.User.MerchantID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("creando producto: %w", err)
	}

	variants := make([]*entity.ProductVariant, 0, len(in.Variants))
	for _, v := range in.Variants {
		variant := &entity.ProductVariant{
			ID:        uuid.NewString(),
			ProductID: product.ID,
			SKU:       v.SKU,
			Barcode:   v.Barcode,
			Price:     v.Price,
			Cost:      v.Cost,
			CreatedAt: now,
		}
		if err := uc.productRepo.CreateVariant(ctx, variant); err != nil {
			return nil, fmt.Errorf("creando variante %s: %w", v.SKU, err)
		}
		variants = append(variants, variant)
	}

	// Cada variante nueva arranca con existencia cero en todas las tiendas,
	// así el inventario de tienda siempre tiene una fila que ajustar.
	stores, err := uc.storeRepo.ListByMerchant(ctx, sctx.User.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("listando tiendas: %w", err)
	}
	for _, s := range stores {
		for _, v := range variants {
			inv := &entity.Inventory{
				ID:        uuid.NewString(),
				StoreID:   s.ID,
				VariantID: v.ID,
				UpdatedAt: now,
			}
			if err := uc.inventoryRepo.Upsert(ctx, inv); err != nil {
				return nil, fmt.Errorf("sembrando inventario de %s en %s: %w", v.SKU, s.ID, err)
			}
		}
	}
	return toProductResponse(product, variants), nil
}

// GetProduct producto con variantes; debe pertenecer al merchant.
func (uc *ProductUseCase) GetProduct(ctx context.Context, sctx *storectx.Context, productID string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("buscando producto: %w", err)
	}
	if product == nil || product.MerchantID != sctx.User.MerchantID {
		return nil, domain.ErrNotFound
	}
	variants, err := uc.productRepo.ListVariantsByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("listando variantes: %w", err)
	}
	return toProductResponse(product, variants), nil
}

// ListProducts catálogo del merchant.
func (uc *ProductUseCase) ListProducts(ctx context.Context, sctx *storectx.Context) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListByMerchant(ctx, sctx.User.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("listando productos: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		variants, err := uc.productRepo.ListVariantsByProduct(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("listando variantes de %s: %w", p.ID, err)
		}
		out = append(out, *toProductResponse(p, variants))
	}
	return out, nil
}

func toProductResponse(p *entity.Product, variants []*entity.ProductVariant) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Variants:    make([]dto.VariantResponse, 0, len(variants)),
		CreatedAt:   p.CreatedAt,
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, dto.VariantResponse{
			ID:      v.ID,
			SKU:     v.SKU,
			Barcode: v.Barcode,
			Price:   v.Price,
			Cost:    v.Cost,
		})
	}
	return resp
}
