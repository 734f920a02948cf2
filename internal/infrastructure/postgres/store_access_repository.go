package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

var _ repository.StoreAccessRepository = (*StoreAccessRepo)(nil)

// StoreAccessRepo implementación del puerto StoreAccessRepository sobre
// PostgreSQL. Necesita el pool (no un Querier) porque ReplaceForUser abre su
// propia transacción.
type StoreAccessRepo struct {
	pool *pgxpool.Pool
}

// NewStoreAccessRepository construye el adaptador de grants.
func NewStoreAccessRepository(pool *pgxpool.Pool) *StoreAccessRepo {
	return &StoreAccessRepo{pool: pool}
}

// ListStoreIDsByUser devuelve los IDs de tienda con grant para el usuario.
func (r *StoreAccessRepo) ListStoreIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT store_id FROM role_permissions WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceForUser borra todos los grants del usuario e inserta los nuevos en
// una sola transacción. El reemplazo es al por mayor, nunca un diff.
func (r *StoreAccessRepo) ReplaceForUser(ctx context.Context, userID string, grants []*entity.StoreAccessGrant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete grants: %w", err)
	}
	for _, g := range grants {
		_, err := tx.Exec(ctx,
			`INSERT INTO role_permissions (id, user_id, store_id, created_at) VALUES ($1, $2, $3, $4)`,
			g.ID, g.UserID, g.StoreID, g.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert grant: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
