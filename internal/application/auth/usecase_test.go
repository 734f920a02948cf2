package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

// ── fakes en memoria ──────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User // por SubjectID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetBySubjectID(_ context.Context, subjectID string) (*entity.User, error) {
	return r.users[subjectID], nil
}

func (r *fakeUserRepo) ListByMerchant(_ context.Context, merchantID string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.MerchantID == merchantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountByMerchant(_ context.Context, merchantID string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.MerchantID == merchantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.users[user.SubjectID] = user
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, userID, roleID string) error {
	for _, u := range r.users {
		if u.ID == userID {
			u.RoleID = roleID
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type fakeMerchantRepo struct {
	merchants map[string]*entity.Merchant
}

func newFakeMerchantRepo() *fakeMerchantRepo {
	return &fakeMerchantRepo{merchants: map[string]*entity.Merchant{}}
}

func (r *fakeMerchantRepo) GetByID(_ context.Context, id string) (*entity.Merchant, error) {
	return r.merchants[id], nil
}

func (r *fakeMerchantRepo) Create(_ context.Context, m *entity.Merchant) error {
	r.merchants[m.ID] = m
	return nil
}

type fakeRoleRepo struct {
	roles map[string]*entity.Role // por nombre en minúsculas
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[string]*entity.Role{}}
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	return r.roles[strings.ToLower(name)], nil
}

func (r *fakeRoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.roles[strings.ToLower(role.Name)] = role
	return nil
}

func newUseCase() (*AuthUseCase, *fakeUserRepo, *fakeMerchantRepo, *fakeRoleRepo) {
	users := newFakeUserRepo()
	merchants := newFakeMerchantRepo()
	roles := newFakeRoleRepo()
	return NewAuthUseCase(users, merchants, roles), users, merchants, roles
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestSyncUserCreaUsuarioYMerchant(t *testing.T) {
	uc, _, merchants, roles := newUseCase()

	user, err := uc.SyncUser(context.Background(), Identity{
		SubjectID: "user_abc",
		Email:     "ana@tienda.co",
		FullName:  "Ana Ruiz",
		OrgID:     "org_123",
		OrgRole:   "org:admin",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "user_abc", user.SubjectID)
	assert.Equal(t, "org_123", user.MerchantID)
	assert.Equal(t, "ADMIN", user.RoleName)
	assert.NotNil(t, merchants.merchants["org_123"])
	assert.NotNil(t, roles.roles["admin"])
}

func TestSyncUserEsIdempotente(t *testing.T) {
	uc, users, _, _ := newUseCase()
	id := Identity{SubjectID: "user_abc", OrgID: "org_123", OrgRole: "org:admin"}

	first, err := uc.SyncUser(context.Background(), id)
	require.NoError(t, err)
	second, err := uc.SyncUser(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users.users, 1)
}

func TestSyncUserSinOrganizacionGeneraMerchantPropio(t *testing.T) {
	uc, _, merchants, _ := newUseCase()

	user, err := uc.SyncUser(context.Background(), Identity{SubjectID: "user_solo"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.MerchantID)
	assert.NotNil(t, merchants.merchants[user.MerchantID])
}

func TestSyncUserPrimerUsuarioSinRolQuedaAdmin(t *testing.T) {
	uc, _, _, _ := newUseCase()

	first, err := uc.SyncUser(context.Background(), Identity{SubjectID: "u1", OrgID: "org_x"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", first.RoleName)

	second, err := uc.SyncUser(context.Background(), Identity{SubjectID: "u2", OrgID: "org_x"})
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYEE", second.RoleName)
}

func TestSyncUserActualizaRolSiLaSesionTraeOtro(t *testing.T) {
	uc, _, _, _ := newUseCase()

	user, err := uc.SyncUser(context.Background(), Identity{SubjectID: "u1", OrgID: "org_x", OrgRole: "employee"})
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYEE", user.RoleName)

	user, err = uc.SyncUser(context.Background(), Identity{SubjectID: "u1", OrgID: "org_x", OrgRole: "org:admin"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", user.RoleName)
}

func TestSyncUserRolDesconocidoNoDegrada(t *testing.T) {
	uc, _, _, _ := newUseCase()

	user, err := uc.SyncUser(context.Background(), Identity{SubjectID: "u1", OrgID: "org_x", OrgRole: "owner"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", user.RoleName)

	// sesión posterior sin rol: el usuario conserva ADMIN
	user, err = uc.SyncUser(context.Background(), Identity{SubjectID: "u1", OrgID: "org_x"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", user.RoleName)
}

func TestSyncUserSinSujetoRechaza(t *testing.T) {
	uc, _, _, _ := newUseCase()

	_, err := uc.SyncUser(context.Background(), Identity{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
