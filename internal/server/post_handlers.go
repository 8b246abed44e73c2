package server

import (
	"communityhub/internal/models"
	"communityhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Content     string `json:"content"`
		CommunityID uint   `json:"community_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CommunityID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Community ID is required"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:      userID,
		Content:     req.Content,
		CommunityID: req.CommunityID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetFeed handles GET /api/posts/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	posts, err := s.postService.GetFeed(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetCommunityPosts handles GET /api/posts/community/:id
func (s *Server) GetCommunityPosts(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	userID := s.optionalUserID(c)

	posts, err := s.postService.ListCommunityPosts(c.Context(), communityID, page.Limit, page.Offset, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/user/:userId
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	userID := s.optionalUserID(c)

	posts, err := s.postService.GetUserPosts(c.Context(), authorID, page.Limit, page.Offset, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// UpdatePost handles PATCH /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  userID,
		PostID:  id,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: userID,
		PostID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(c.Context(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post liked successfully",
		"post":    post,
	})
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnlikePost(c.Context(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post unliked successfully",
		"post":    post,
	})
}
