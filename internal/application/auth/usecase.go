// Package auth sincroniza la sesión del proveedor de identidad con los
// usuarios locales. No hay passwords: la verificación de la sesión ocurre en
// el middleware; aquí solo se materializa (o actualiza) el usuario.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/authz"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

// Identity datos del sujeto autenticado, ya verificados por el middleware.
// OrgID y OrgRole vienen de los headers X-Clerk-Org-Id / X-Clerk-Org-Role
// (o de los claims de la sesión si los headers faltan).
type Identity struct {
	SubjectID string
	Email     string
	FullName  string
	OrgID     string
	OrgRole   string
}

// AuthUseCase caso de uso de sincronización de identidad.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	merchantRepo repository.MerchantRepository
	roleRepo     repository.RoleRepository
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, merchantRepo repository.MerchantRepository, roleRepo repository.RoleRepository) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, merchantRepo: merchantRepo, roleRepo: roleRepo}
}

// SyncUser busca el usuario por su sujeto de identidad y lo crea si no existe
// (find-or-create idempotente). Reglas de rol:
//   - si la sesión trae un rol reconocible, se usa ese;
//   - si no, el primer usuario del merchant queda ADMIN y los demás EMPLOYEE;
//   - si el usuario ya existe y la sesión trae un rol distinto, se actualiza.
func (uc *AuthUseCase) SyncUser(ctx context.Context, id Identity) (*entity.User, error) {
	if id.SubjectID == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.userRepo.GetBySubjectID(ctx, id.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("buscando usuario por sujeto: %w", err)
	}
	if user != nil {
		return uc.maybeUpdateRole(ctx, user, id.OrgRole)
	}

	merchant, err := uc.ensureMerchant(ctx, id)
	if err != nil {
		return nil, err
	}

	roleName := authz.Normalize(id.OrgRole).String()
	if authz.Normalize(id.OrgRole) == authz.RoleUnknown {
		count, err := uc.userRepo.CountByMerchant(ctx, merchant.ID)
		if err != nil {
			return nil, fmt.Errorf("contando usuarios del merchant: %w", err)
		}
		if count == 0 {
			roleName = authz.RoleNameAdmin
		} else {
			roleName = authz.RoleNameEmployee
		}
	}
	role, err := uc.ensureRole(ctx, roleName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user = &entity.User{
		ID:         uuid.New().String(),
		SubjectID:  id.SubjectID,
		Email:      id.Email,
		FullName:   id.FullName,
		MerchantID: merchant.ID,
		RoleID:     role.ID,
		RoleName:   role.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creando usuario: %w", err)
	}
	return user, nil
}

// maybeUpdateRole actualiza el rol persistido cuando la sesión trae un rol
// reconocible distinto del actual. Un rol ausente o desconocido en la sesión
// nunca degrada al usuario.
func (uc *AuthUseCase) maybeUpdateRole(ctx context.Context, user *entity.User, orgRole string) (*entity.User, error) {
	incoming := authz.Normalize(orgRole)
	if incoming == authz.RoleUnknown || incoming == authz.Normalize(user.RoleName) {
		return user, nil
	}
	role, err := uc.ensureRole(ctx, incoming.String())
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateRole(ctx, user.ID, role.ID); err != nil {
		return nil, fmt.Errorf("actualizando rol: %w", err)
	}
	user.RoleID = role.ID
	user.RoleName = role.Name
	return user, nil
}

// ensureMerchant resuelve el merchant del usuario nuevo: el de la organización
// de la sesión si existe, o uno nuevo. Sin organización, cada usuario estrena
// su propio merchant (UUID generado).
func (uc *AuthUseCase) ensureMerchant(ctx context.Context, id Identity) (*entity.Merchant, error) {
	merchantID := id.OrgID
	if merchantID == "" {
		merchantID = uuid.New().String()
	}
	merchant, err := uc.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("buscando merchant: %w", err)
	}
	if merchant != nil {
		return merchant, nil
	}
	name := id.FullName
	if name == "" {
		name = id.Email
	}
	merchant = &entity.Merchant{
		ID:        merchantID,
		Name:      name,
		Currency:  "USD",
		CreatedAt: time.Now(),
	}
	if err := uc.merchantRepo.Create(ctx, merchant); err != nil {
		return nil, fmt.Errorf("creando merchant: %w", err)
	}
	return merchant, nil
}

// ensureRole busca el rol por nombre (case-insensitive) y lo auto-provisiona
// si no existe todavía.
func (uc *AuthUseCase) ensureRole(ctx context.Context, name string) (*entity.Role, error) {
	role, err := uc.roleRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("buscando rol %s: %w", name, err)
	}
	if role != nil {
		return role, nil
	}
	role = &entity.Role{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := uc.roleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("creando rol %s: %w", name, err)
	}
	return role, nil
}

// ToUserResponse mapea la entidad al DTO de respuesta.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		SubjectID:  u.SubjectID,
		Email:      u.Email,
		FullName:   u.FullName,
		MerchantID: u.MerchantID,
		Role:       u.RoleName,
	}
}
