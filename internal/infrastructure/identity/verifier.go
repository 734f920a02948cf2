// Package identity verifica los tokens de sesión emitidos por el proveedor
// de identidad. El backend no emite tokens propios: solo valida firma,
// vigencia e issuer, y extrae los claims del sujeto.
package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/slipsync/slipsync-api/internal/domain"
	"github.com/slipsync/slipsync-api/pkg/config"
)

// Claims datos del sujeto extraídos del token de sesión.
type Claims struct {
	SubjectID string
	Email     string
	FullName  string
	OrgID     string
	OrgRole   string
}

// Verifier valida un token de sesión y devuelve sus claims.
type Verifier interface {
	Verify(tokenString string) (*Claims, error)
}

var _ Verifier = (*JWTVerifier)(nil)

// JWTVerifier verificador HS256.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier construye el verificador con el secreto compartido.
func NewJWTVerifier(cfg config.IdentityConfig) *JWTVerifier {
	return &JWTVerifier{secret: []byte(cfg.SessionSecret), issuer: cfg.Issuer}
}

// Verify valida firma, expiración e issuer (si está configurado) y extrae
// los claims. Cualquier fallo se colapsa en ErrUnauthorized: el cliente no
// necesita saber qué parte del token falló.
func (v *JWTVerifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: token inválido", domain.ErrUnauthorized)
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: claims ilegibles", domain.ErrUnauthorized)
	}
	claims := &Claims{
		SubjectID: stringClaim(mapClaims, "sub"),
		Email:     stringClaim(mapClaims, "email"),
		FullName:  stringClaim(mapClaims, "name"),
		OrgID:     stringClaim(mapClaims, "org_id"),
		OrgRole:   stringClaim(mapClaims, "org_role"),
	}
	if claims.SubjectID == "" {
		return nil, fmt.Errorf("%w: token sin sujeto", domain.ErrUnauthorized)
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
