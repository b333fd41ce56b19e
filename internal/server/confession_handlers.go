package server

import (
	"confessio/internal/middleware"
	"confessio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// confessionRequest is the submission body shared by confessions and replies.
type confessionRequest struct {
	Content string `json:"content"`
	Alias   string `json:"alias"`
}

// GetConfessions handles GET /api/confessions?sort=latest|hot|popular
func (s *Server) GetConfessions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sort := c.Query("sort", "latest")
	viewerID := middleware.ResolvedUserID(c)

	confessions, err := s.confessionService.ListFeed(ctx, sort, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(confessions)
}

// GetMyConfessions handles GET /api/confessions/me
func (s *Server) GetMyConfessions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.ResolvedUserID(c)

	confessions, err := s.confessionService.ListOwn(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(confessions)
}

// GetConfession handles GET /api/confessions/:id
func (s *Server) GetConfession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	confession, err := s.confessionService.GetByID(ctx, id, middleware.ResolvedUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(confession)
}

// GetReplies handles GET /api/confessions/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	replies, err := s.confessionService.ListReplies(ctx, id, middleware.ResolvedUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(replies)
}

// CreateConfession handles POST /api/confessions
func (s *Server) CreateConfession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.ResolvedUserID(c)

	var req confessionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	confession, err := s.confessionService.Create(ctx, userID, req.Content, req.Alias)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(confession)
}

// CreateReply handles POST /api/confessions/:id/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.ResolvedUserID(c)

	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req confessionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.confessionService.CreateReply(ctx, userID, id, req.Content, req.Alias)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// DeleteConfession handles DELETE /api/confessions/:id
//
// Responds 204 whether or not a row was removed: only the owner's own rows
// match, and the response must not reveal whether someone else's id exists.
func (s *Server) DeleteConfession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.ResolvedUserID(c)

	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.confessionService.Delete(ctx, id, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
