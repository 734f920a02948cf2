package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Las lecturas traen roles.name en el mismo query (LEFT JOIN: el rol puede
// ser nulo en usuarios legados).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.subject_id, u.email, u.full_name, u.merchant_id,
	       COALESCE(u.role_id::text, ''), COALESCE(r.name, ''), u.created_at, u.updated_at
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.SubjectID, &u.Email, &u.FullName, &u.MerchantID,
		&u.RoleID, &u.RoleName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetBySubjectID obtiene un usuario por su sujeto del proveedor de identidad.
func (r *UserRepo) GetBySubjectID(ctx context.Context, subjectID string) (*entity.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE u.subject_id = $1`, subjectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by subject: %w", err)
	}
	return user, nil
}

// ListByMerchant lista los usuarios del merchant.
func (r *UserRepo) ListByMerchant(ctx context.Context, merchantID string) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, userSelect+` WHERE u.merchant_id = $1 ORDER BY u.created_at ASC`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CountByMerchant cuenta los usuarios del merchant.
func (r *UserRepo) CountByMerchant(ctx context.Context, merchantID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE merchant_id = $1`, merchantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, subject_id, email, full_name, merchant_id, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.SubjectID, user.Email, user.FullName,
		user.MerchantID, user.RoleID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateRole cambia el rol asignado del usuario.
func (r *UserRepo) UpdateRole(ctx context.Context, userID, roleID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE users SET role_id = $2, updated_at = $3 WHERE id = $1`,
		userID, roleID, time.Now())
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
