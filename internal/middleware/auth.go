package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/brightride/brightride-api/internal/models"
	"github.com/brightride/brightride-api/internal/session"
	"github.com/brightride/brightride-api/internal/utils"
)

// TokenCookie is set on register/login for browser clients.
const TokenCookie = "br_token"

// Identity is what authentication establishes about the caller.
type Identity struct {
	models.Actor
	TokenID   string
	ExpiresAt time.Time
}

type identityKey struct{}

// CurrentIdentity returns the identity stored by Authenticate.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityKey{}).(Identity)
	return id, ok
}

// Authenticate accepts "Authorization: Bearer <token>" and falls back to the
// token cookie. Missing, invalid, expired or revoked tokens get 401.
func Authenticate(secret string, revoker session.Revoker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenStr == "" {
			tokenStr = c.Cookies(TokenCookie)
		}
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		role, ok := models.ParseRole(claims.Role)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if claims.ID != "" {
			revoked, err := revoker.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				log.Errorw("token revocation check failed", "request_id", c.Locals("requestid"), "error", err)
				return fiber.ErrServiceUnavailable
			}
			if revoked {
				return fiber.ErrUnauthorized
			}
		}

		id := Identity{
			Actor:   models.Actor{ID: uid, Role: role},
			TokenID: claims.ID,
		}
		if claims.ExpiresAt != nil {
			id.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Locals(identityKey{}, id)

		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
