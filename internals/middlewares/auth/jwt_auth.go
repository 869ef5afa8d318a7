package auth

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Locals keys set by AuthJWT.
const (
	LocClaims   = "jwt_claims"
	LocUserID   = "user_id"
	LocUserUUID = "user_uuid"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // access_token cookie when no Authorization header
}

// AuthJWT rejects requests without a valid HMAC-signed token. Both
// "Bearer <jwt>" and "Token <jwt>" are accepted.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: JWT_SECRET obrigatório")
	}

	return func(c *fiber.Ctx) error {
		raw := tokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if raw == "" && o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciais não informadas")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Método de assinatura inválido")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido ou expirado")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
		}
		c.Locals(LocClaims, claims)

		// id/sub/user_id in order of preference
		var uid string
		for _, k := range []string{"id", "sub", "user_id"} {
			if uid = strClaim(claims, k); uid != "" {
				break
			}
		}
		if uid != "" {
			c.Locals(LocUserID, uid)
			if u, err := uuid.Parse(uid); err == nil {
				c.Locals(LocUserUUID, u)
			}
		}
		return c.Next()
	}
}

// tokenFromHeader extracts the credential from "Bearer x" or "Token x".
func tokenFromHeader(h string) string {
	fields := strings.Fields(h)
	if len(fields) != 2 {
		return ""
	}
	if !strings.EqualFold(fields[0], "Bearer") && !strings.EqualFold(fields[0], "Token") {
		return ""
	}
	return strings.Trim(fields[1], `"'`)
}

func strClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
