package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

var _ repository.MerchantRepository = (*MerchantRepo)(nil)

// MerchantRepo implementación del puerto MerchantRepository sobre PostgreSQL.
type MerchantRepo struct {
	q Querier
}

// NewMerchantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMerchantRepository(q Querier) *MerchantRepo {
	return &MerchantRepo{q: q}
}

// GetByID obtiene un merchant por ID.
func (r *MerchantRepo) GetByID(ctx context.Context, id string) (*entity.Merchant, error) {
	query := `
		SELECT id, name, currency, created_at
		FROM merchants WHERE id = $1`
	var m entity.Merchant
	err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Currency, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	return &m, nil
}

// Create persiste un nuevo merchant.
func (r *MerchantRepo) Create(ctx context.Context, merchant *entity.Merchant) error {
	query := `
		INSERT INTO merchants (id, name, currency, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, merchant.ID, merchant.Name, merchant.Currency, merchant.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}
