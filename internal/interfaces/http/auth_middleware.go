package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/auth"
	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/storectx"
	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/internal/infrastructure/identity"
	"github.com/slipsync/slipsync-api/pkg/metrics"
)

// Headers que el frontend manda en cada request. Los X-Clerk-* replican
// datos de la sesión del proveedor de identidad; el backend los cruza con
// lo persistido y nunca los toma como única fuente.
const (
	HeaderStoreID     = "X-Store-Id"
	HeaderStoreAccess = "X-Clerk-Store-Access"
	HeaderOrgID       = "X-Clerk-Org-Id"
	HeaderOrgRole     = "X-Clerk-Org-Role"
)

// Locals keys para el contexto de tienda en Fiber.
const localStoreCtx = "store_ctx"

// AuthMiddleware valida el Bearer token de sesión, sincroniza el usuario y
// resuelve su contexto de tienda a c.Locals.
//
// Un usuario sin tienda asignada pasa igual (Store nil en el contexto): los
// endpoints que no dependen de una tienda activa, como /auth/me o el alta de
// tiendas de un admin recién creado, deben seguir funcionando.
func AuthMiddleware(verifier identity.Verifier, authUC *auth.AuthUseCase, resolver *storectx.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			metrics.AuthRejections.WithLabelValues("user").Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			metrics.AuthRejections.WithLabelValues("user").Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			metrics.AuthRejections.WithLabelValues("user").Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}

		id := auth.Identity{
			SubjectID: claims.SubjectID,
			Email:     claims.Email,
			FullName:  claims.FullName,
			OrgID:     claims.OrgID,
			OrgRole:   claims.OrgRole,
		}
		// Los headers de sesión pisan lo que traiga el token: Clerk rota la
		// organización activa sin re-emitir el JWT.
		if v := c.Get(HeaderOrgID); v != "" {
			id.OrgID = v
		}
		if v := c.Get(HeaderOrgRole); v != "" {
			id.OrgRole = v
		}

		user, err := authUC.SyncUser(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}

		sctx, err := resolver.Resolve(c.UserContext(), user, c.Get(HeaderStoreID), splitHeaderList(c.Get(HeaderStoreAccess)))
		if errors.Is(err, domain.ErrNoStoreAssigned) {
			sctx = &storectx.Context{User: user, AccessSet: map[string]struct{}{}}
		} else if err != nil {
			return writeError(c, err)
		}

		c.Locals(localStoreCtx, sctx)
		return c.Next()
	}
}

// GetStoreContext devuelve el contexto de tienda (después del middleware de auth).
func GetStoreContext(c *fiber.Ctx) *storectx.Context {
	v := c.Locals(localStoreCtx)
	if v == nil {
		return nil
	}
	sctx, _ := v.(*storectx.Context)
	return sctx
}

// splitHeaderList parte una lista separada por comas ignorando vacíos.
func splitHeaderList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
