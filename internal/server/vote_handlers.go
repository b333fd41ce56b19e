package server

import (
	"confessio/internal/middleware"
	"confessio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/confessions/:id/vote
//
// Body: {"weight": 1} or {"weight": -1}. Casting again overwrites the
// previous vote; casting the same weight twice is a no-op.
func (s *Server) CastVote(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.ResolvedUserID(c)

	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Weight int `json:"weight"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.voteService.Cast(ctx, userID, id, req.Weight); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"confession_id": id,
		"weight":        req.Weight,
	})
}

// ClearVote handles DELETE /api/confessions/:id/vote
func (s *Server) ClearVote(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.ResolvedUserID(c)

	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.voteService.Clear(ctx, userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
