// Package storectx resuelve el contexto de tienda de cada request.
//
// El contexto es un valor por request: nunca se muta el usuario ni ningún
// estado compartido para recordar la "tienda activa". Cada request llega con
// su header X-Store-Id (o sin él) y la resolución se repite completa.
package storectx

import (
	"context"
	"fmt"

	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/domain/authz"
	"github.com/slipsync/slipsync-api/internal/domain/entity"
	"github.com/slipsync/slipsync-api/internal/domain/repository"
)

// Context tienda activa y alcance del usuario para un request.
type Context struct {
	User       *entity.User
	Store      *entity.Store       // tienda activa resuelta
	Accessible []*entity.Store     // tiendas visibles, en orden de creación
	AccessSet  map[string]struct{} // IDs de Accessible, para chequeos O(1)
}

// Resolver arma el Context a partir de los repos de tiendas y grants.
type Resolver struct {
	storeRepo  repository.StoreRepository
	accessRepo repository.StoreAccessRepository
}

// NewResolver construye el resolver.
func NewResolver(storeRepo repository.StoreRepository, accessRepo repository.StoreAccessRepository) *Resolver {
	return &Resolver{storeRepo: storeRepo, accessRepo: accessRepo}
}

// Resolve calcula el contexto de tienda del request.
//
// requestedStoreID viene del header X-Store-Id (vacío si no se mandó).
// sessionStoreIDs viene del header X-Clerk-Store-Access; si trae algo, esa
// lista ES el alcance del empleado para este request y los grants persistidos
// no se consultan. Vacía, el alcance sale de la base.
//
// Sin header la tienda activa es la primera accesible (creación ascendente).
// Si la tienda pedida no está dentro del alcance, el header se ignora y se
// cae a ese mismo fallback, sin revelar si la tienda existe o de quién es.
func (r *Resolver) Resolve(ctx context.Context, user *entity.User, requestedStoreID string, sessionStoreIDs []string) (*Context, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	all, err := r.storeRepo.ListByMerchant(ctx, user.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("listando tiendas del merchant: %w", err)
	}

	access, err := r.accessSet(ctx, user, sessionStoreIDs)
	if err != nil {
		return nil, err
	}

	accessible := authz.FilterAccessibleStores(user, all, access)
	sctx := &Context{
		User:       user,
		Accessible: accessible,
		AccessSet:  make(map[string]struct{}, len(accessible)),
	}
	for _, s := range accessible {
		sctx.AccessSet[s.ID] = struct{}{}
	}

	if requestedStoreID != "" {
		for _, s := range accessible {
			if s.ID == requestedStoreID {
				sctx.Store = s
				return sctx, nil
			}
		}
		// fuera de alcance: se ignora el header y sigue el fallback
	}
	if len(accessible) == 0 {
		return nil, domain.ErrNoStoreAssigned
	}
	sctx.Store = accessible[0]
	return sctx, nil
}

// accessSet calcula el alcance de tiendas de un empleado. La lista de la
// sesión, cuando viene, es el set completo y la base no se consulta; los
// grants persistidos son solo el fallback. Los ADMIN no necesitan set: su
// acceso es implícito y el filtro los deja pasar.
func (r *Resolver) accessSet(ctx context.Context, user *entity.User, sessionStoreIDs []string) (map[string]struct{}, error) {
	if authz.Normalize(user.RoleName) != authz.RoleEmployee {
		return nil, nil
	}
	set := make(map[string]struct{}, len(sessionStoreIDs))
	for _, id := range sessionStoreIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	if len(set) > 0 {
		return set, nil
	}
	granted, err := r.accessRepo.ListStoreIDsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listando grants del usuario: %w", err)
	}
	return authz.AccessSet(granted...), nil
}
