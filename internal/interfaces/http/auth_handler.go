package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/auth"
	"github.com/slipsync/slipsync-api/internal/application/dto"
)

// AuthHandler endpoints de sesión. La sincronización real ocurre en el
// middleware; estos handlers solo exponen el resultado.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Sync godoc
// @Summary Sincroniza el usuario de la sesión con la base local
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Router /api/auth/sync [post]
func (h *AuthHandler) Sync(c *fiber.Ctx) error {
	sctx := GetStoreContext(c)
	return c.JSON(auth.ToUserResponse(sctx.User))
}

// Me godoc
// @Summary Usuario autenticado con su contexto de tienda resuelto
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} dto.MeResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sctx := GetStoreContext(c)
	resp := dto.MeResponse{
		User:          *auth.ToUserResponse(sctx.User),
		AccessibleIDs: make([]string, 0, len(sctx.Accessible)),
		Stores:        make([]dto.StoreResponse, 0, len(sctx.Accessible)),
	}
	for _, s := range sctx.Accessible {
		resp.AccessibleIDs = append(resp.AccessibleIDs, s.ID)
		resp.Stores = append(resp.Stores, dto.StoreResponse{
			ID: s.ID, Name: s.Name, Address: s.Address,
			Phone: s.Phone, Timezone: s.Timezone, Currency: s.Currency,
			CreatedAt: s.CreatedAt,
		})
	}
	if sctx.Store != nil {
		s := sctx.Store
		resp.ActiveStore = &dto.StoreResponse{
			ID: s.ID, Name: s.Name, Address: s.Address,
			Phone: s.Phone, Timezone: s.Timezone, Currency: s.Currency,
			CreatedAt: s.CreatedAt,
		}
	}
	return c.JSON(resp)
}
