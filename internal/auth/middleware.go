package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"eshop-api/internal/httpx"
)

// claimsKey is the fiber locals key the verified claims are stored under.
const claimsKey = "authClaims"

// RevocationPolicy decides whether an otherwise valid token is still
// usable. Returning true revokes it for this request.
type RevocationPolicy func(*Claims) bool

// AdminOnly is the default policy: every non-admin token is treated as
// revoked on protected routes, so only admin tokens ever pass.
func AdminOnly(c *Claims) bool { return !c.IsAdmin }

// Middleware builds the gateway handler. Exempt requests proceed with no
// claim; everything else needs a valid, unrevoked bearer token.
func Middleware(secret []byte, rules []ExemptionRule, revoked RevocationPolicy, log *zap.Logger) fiber.Handler {
	if revoked == nil {
		revoked = AdminOnly
	}
	return func(c *fiber.Ctx) error {
		if Exempt(rules, c.Method(), c.Path()) {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return httpx.Authf("the user is not authorized")
		}

		claims, err := VerifyToken(secret, raw)
		if err != nil {
			log.Debug("token verification failed", zap.String("path", c.Path()), zap.Error(err))
			return httpx.Authf("the user is not authorized")
		}
		if revoked(claims) {
			log.Debug("token revoked", zap.String("user_id", claims.UserID), zap.String("path", c.Path()))
			return httpx.Authf("the user is not authorized")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the claims attached by the middleware, or nil on
// exempt routes.
func ClaimsFrom(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(claimsKey).(*Claims)
	return claims
}
