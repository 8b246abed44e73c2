package server

import (
	"communityhub/internal/models"
	"communityhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommunity handles POST /api/communities
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		IsPrivate   bool   `json:"is_private"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.CreateCommunity(c.Context(), service.CreateCommunityInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Community created successfully",
		"community": community,
	})
}

// GetCommunities handles GET /api/communities
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID := s.optionalUserID(c)

	communities, err := s.communityService.ListCommunities(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(communities)
}

// GetMyCommunities handles GET /api/communities/my
func (s *Server) GetMyCommunities(c *fiber.Ctx) error {
	userID := currentUserID(c)

	communities, err := s.communityService.MyCommunities(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(communities)
}

// GetCommunity handles GET /api/communities/:id
func (s *Server) GetCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	community, err := s.communityService.GetCommunity(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(community)
}

// UpdateCommunity handles PATCH /api/communities/:id
func (s *Server) UpdateCommunity(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		IsPrivate   *bool  `json:"is_private"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.UpdateCommunity(c.Context(), service.UpdateCommunityInput{
		UserID:      userID,
		CommunityID: id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Community updated successfully",
		"community": community,
	})
}

// DeleteCommunity handles DELETE /api/communities/:id
func (s *Server) DeleteCommunity(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.communityService.DeleteCommunity(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Community deleted successfully"})
}

// JoinCommunity handles POST /api/communities/:id/join
func (s *Server) JoinCommunity(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	community, err := s.communityService.JoinCommunity(c.Context(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Joined community successfully",
		"community": community,
	})
}

// LeaveCommunity handles POST /api/communities/:id/leave
func (s *Server) LeaveCommunity(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.communityService.LeaveCommunity(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Left community successfully"})
}
