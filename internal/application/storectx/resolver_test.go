package storectx

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
)

type fakeStoreRepo struct {
	stores []*entity.Store
}

func (r *fakeStoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	for _, s := range r.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStoreRepo) ListByMerchant(_ context.Context, merchantID string) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.stores {
		if s.MerchantID == merchantID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeStoreRepo) FirstByMerchant(ctx context.Context, merchantID string) (*entity.Store, error) {
	all, _ := r.ListByMerchant(ctx, merchantID)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeStoreRepo) Create(_ context.Context, s *entity.Store) error {
	r.stores = append(r.stores, s)
	return nil
}

type fakeAccessRepo struct {
	grants map[string][]string // userID -> storeIDs
}

func (r *fakeAccessRepo) ListStoreIDsByUser(_ context.Context, userID string) ([]string, error) {
	return r.grants[userID], nil
}

func (r *fakeAccessRepo) ReplaceForUser(_ context.Context, userID string, grants []*entity.StoreAccessGrant) error {
	ids := make([]string, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.StoreID)
	}
	r.grants[userID] = ids
	return nil
}

func fixture() (*Resolver, *fakeStoreRepo, *fakeAccessRepo) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	stores := &fakeStoreRepo{stores: []*entity.Store{
		{ID: "s1", MerchantID: "m1", Name: "Centro", CreatedAt: base},
		{ID: "s2", MerchantID: "m1", Name: "Norte", CreatedAt: base.Add(time.Hour)},
		{ID: "s3", MerchantID: "m1", Name: "Sur", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "x1", MerchantID: "m2", Name: "Otro", CreatedAt: base},
	}}
	access := &fakeAccessRepo{grants: map[string][]string{}}
	return NewResolver(stores, access), stores, access
}

func admin() *entity.User {
	return &entity.User{ID: "u-admin", MerchantID: "m1", RoleName: "ADMIN"}
}

func employee() *entity.User {
	return &entity.User{ID: "u-emp", MerchantID: "m1", RoleName: "EMPLOYEE"}
}

func TestResolveAdminSinHeaderUsaPrimeraTienda(t *testing.T) {
	r, _, _ := fixture()

	sctx, err := r.Resolve(context.Background(), admin(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, "s1", sctx.Store.ID)
	assert.Len(t, sctx.Accessible, 3)
}

func TestResolveAdminConHeaderSeleccionaTienda(t *testing.T) {
	r, _, _ := fixture()

	sctx, err := r.Resolve(context.Background(), admin(), "s3", nil)
	require.NoError(t, err)
	assert.Equal(t, "s3", sctx.Store.ID)
}

func TestResolveEmpleadoSoloVeSusTiendas(t *testing.T) {
	r, _, access := fixture()
	access.grants["u-emp"] = []string{"s2", "s3"}

	sctx, err := r.Resolve(context.Background(), employee(), "", nil)
	require.NoError(t, err)

	// primera accesible en orden de creación, no s1
	assert.Equal(t, "s2", sctx.Store.ID)
	assert.Len(t, sctx.Accessible, 2)
	_, ok := sctx.AccessSet["s1"]
	assert.False(t, ok)
}

func TestResolveEmpleadoTiendaFueraDeGrantsCaeAlFallback(t *testing.T) {
	r, _, access := fixture()
	access.grants["u-emp"] = []string{"s2"}

	// pedir s1 sin grant no es error: el header se ignora y queda s2
	sctx, err := r.Resolve(context.Background(), employee(), "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, "s2", sctx.Store.ID)
}

func TestResolveTiendaDeOtroMerchantCaeAlFallback(t *testing.T) {
	r, _, _ := fixture()

	// x1 existe pero pertenece a m2; la respuesta no distingue de una
	// inexistente: ambas caen a la primera tienda propia
	sctx, err := r.Resolve(context.Background(), admin(), "x1", nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", sctx.Store.ID)

	sctx, err = r.Resolve(context.Background(), admin(), "no-existe", nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", sctx.Store.ID)
}

func TestResolveSesionDefineElAlcance(t *testing.T) {
	r, _, access := fixture()
	access.grants["u-emp"] = []string{"s2"}

	sctx, err := r.Resolve(context.Background(), employee(), "s3", []string{"s3"})
	require.NoError(t, err)
	assert.Equal(t, "s3", sctx.Store.ID)
	require.Len(t, sctx.Accessible, 1)
}

func TestResolveSesionReemplazaGrantsPersistidos(t *testing.T) {
	r, _, access := fixture()
	access.grants["u-emp"] = []string{"s1"}

	// la sesión manda: con acceso ["s2"] el grant de s1 no cuenta, y pedir
	// s1 resuelve la primera tienda del alcance vigente
	sctx, err := r.Resolve(context.Background(), employee(), "s1", []string{"s2"})
	require.NoError(t, err)
	assert.Equal(t, "s2", sctx.Store.ID)
	_, ok := sctx.AccessSet["s1"]
	assert.False(t, ok)
}

func TestResolveEmpleadoSinGrantsNiTiendas(t *testing.T) {
	r, _, _ := fixture()

	_, err := r.Resolve(context.Background(), employee(), "", nil)
	assert.ErrorIs(t, err, domain.ErrNoStoreAssigned)
}

func TestResolveUsuarioSinRolVeTodo(t *testing.T) {
	r, _, _ := fixture()
	legacy := &entity.User{ID: "u-legacy", MerchantID: "m1", RoleName: ""}

	sctx, err := r.Resolve(context.Background(), legacy, "", nil)
	require.NoError(t, err)
	assert.Len(t, sctx.Accessible, 3)
	assert.Equal(t, "s1", sctx.Store.ID)
}

func TestResolveSinUsuarioRechaza(t *testing.T) {
	r, _, _ := fixture()

	_, err := r.Resolve(context.Background(), nil, "", nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
