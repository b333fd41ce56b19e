package middleware

import (
	"time"

	"confessio/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// IdentityCookie is the cookie carrying the anonymous identity token.
	IdentityCookie = "userId"
	// LocalsUserID is the Fiber locals key the resolved token is stored under.
	LocalsUserID = "userID"

	// identityCookieMaxAge keeps the token around for ~10 years; the cookie
	// is the only record of who this browser is.
	identityCookieMaxAge = 60 * 60 * 24 * 365 * 10
)

// Identity resolves the anonymous identity token from the request cookie into
// locals. No token is minted here; unauthenticated requests pass through with
// no userID local so read-only handlers can degrade to an anonymous view.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(IdentityCookie); token != "" {
			c.Locals(LocalsUserID, token)
		}
		return c.Next()
	}
}

// IdentityRequired enforces a resolved identity token for data-mutating and
// viewer-scoped routes. Every such operation keys off this identifier, so a
// missing token is a hard error rather than something to silently proceed past.
func IdentityRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if uid, ok := c.Locals(LocalsUserID).(string); !ok || uid == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("No identity token; refresh your browser"))
		}
		return c.Next()
	}
}

// MintIdentity issues a fresh identity token and binds it to the response.
// Used by the identity endpoint on a browser's first visit.
func MintIdentity(c *fiber.Ctx) string {
	token := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     IdentityCookie,
		Value:    token,
		MaxAge:   identityCookieMaxAge,
		Expires:  time.Now().Add(identityCookieMaxAge * time.Second),
		Path:     "/",
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	c.Locals(LocalsUserID, token)
	return token
}

// ResolvedUserID returns the identity token stored in locals, or "" when the
// caller is anonymous.
func ResolvedUserID(c *fiber.Ctx) string {
	if uid, ok := c.Locals(LocalsUserID).(string); ok {
		return uid
	}
	return ""
}
