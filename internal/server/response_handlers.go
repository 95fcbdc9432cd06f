// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"guildboard/internal/models"
	"guildboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateResponse handles POST /api/posts/:postId/responses
func (s *Server) CreateResponse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	response, err := s.responseService.CreateResponse(ctx, service.CreateResponseInput{
		UserID: userID,
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetResponses handles GET /api/posts/:id/responses
func (s *Server) GetResponses(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	responses, err := s.responseService.ListResponses(ctx, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(responses)
}

// GetReceivedResponses handles GET /api/responses/received
func (s *Server) GetReceivedResponses(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	responses, err := s.responseService.ListReceivedResponses(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(responses)
}

// AcceptResponse handles POST /api/posts/:postId/responses/:id/accept
func (s *Server) AcceptResponse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	responseID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	response, err := s.responseService.AcceptResponse(ctx, service.ModerateResponseInput{
		UserID:     userID,
		PostID:     postID,
		ResponseID: responseID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(response)
}

// RejectResponse handles POST /api/posts/:postId/responses/:id/reject
func (s *Server) RejectResponse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	responseID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	response, err := s.responseService.RejectResponse(ctx, service.ModerateResponseInput{
		UserID:     userID,
		PostID:     postID,
		ResponseID: responseID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(response)
}

// UpdateResponse handles PUT /api/posts/:postId/responses/:id
func (s *Server) UpdateResponse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	responseID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	response, err := s.responseService.UpdateResponse(ctx, service.UpdateResponseInput{
		UserID:     userID,
		PostID:     postID,
		ResponseID: responseID,
		Text:       req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(response)
}

// DeleteResponse handles DELETE /api/posts/:postId/responses/:id
func (s *Server) DeleteResponse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	responseID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.responseService.DeleteResponse(ctx, service.ModerateResponseInput{
		UserID:     userID,
		PostID:     postID,
		ResponseID: responseID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Response deleted",
	})
}
