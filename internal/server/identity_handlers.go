package server

import (
	"confessio/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetIdentity handles GET /api/users
//
// Returns the caller's anonymous identity token, minting a fresh one (and
// setting the long-lived cookie) when the browser arrives without one. The
// endpoint is idempotent for a returning browser.
func (s *Server) GetIdentity(c *fiber.Ctx) error {
	token := middleware.ResolvedUserID(c)
	if token == "" {
		token = middleware.MintIdentity(c)
	}

	return c.JSON(fiber.Map{
		"user_id": token,
	})
}
