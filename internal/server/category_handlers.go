// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory handles GET /api/categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(category)
}

// SubscribeCategory handles POST /api/categories/:id/subscribe
func (s *Server) SubscribeCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, svcErr := s.categoryService.Subscribe(ctx, categoryID, userID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"message":  "Subscribed",
		"category": category,
	})
}

// GetMySubscriptions handles GET /api/categories/subscriptions
func (s *Server) GetMySubscriptions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	categories, err := s.categoryService.ListSubscriptions(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}
