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

// CategoryUseCase categorías del catálogo.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso de categorías.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// CreateCategory crea una categoría, opcionalmente bajo un padre del mismo merchant.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, sctx *storectx.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !authz.HasPermission(sctx.User, authz.PermManageProducts) {
		return nil, domain.ErrForbidden
	}
	if in.ParentID != "" {
		parent, err := uc.categoryRepo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("buscando categoría padre: %w", err)
		}
		if parent == nil || parent.MerchantID != sctx.User.MerchantID {
			return nil, fmt.Errorf("%w: categoría padre %s", domain.ErrInvalidInput, in.ParentID)
		}
	}
	category := &entity.Category{
		ID:         uuid.NewString(),
		MerchantID: sctx.User.MerchantID,
		ParentID:   in.ParentID,
		Name:       in.Name,
		CreatedAt:  time.Now(),
	}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("creando categoría: %w", err)
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name, ParentID: category.ParentID}, nil
}

// ListCategories categorías del merchant.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, sctx *storectx.Context) ([]dto.CategoryResponse, error) {
	categories, err := uc.categoryRepo.ListByMerchant(ctx, sctx.User.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("listando categorías: %w", err)
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, ParentID: c.ParentID})
	}
	return out, nil
}
