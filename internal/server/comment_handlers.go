package server

import (
	"communityhub/internal/models"
	"communityhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		PostID          uint   `json:"post_id"`
		Content         string `json:"content"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Post ID is required"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:          userID,
		PostID:          req.PostID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment created successfully",
		"comment": comment,
	})
}

// GetComment handles GET /api/comments/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := s.optionalUserID(c)

	comment, err := s.commentService.GetComment(c.Context(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comment)
}

// GetPostComments handles GET /api/comments/post/:postId
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	userID := s.optionalUserID(c)

	comments, err := s.commentService.ListComments(c.Context(), postID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// UpdateComment handles PATCH /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
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

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		UserID:    userID,
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    userID,
		CommentID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.LikeComment(c.Context(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment liked successfully",
		"comment": comment,
	})
}

// UnlikeComment handles DELETE /api/comments/:id/like
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.UnlikeComment(c.Context(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment unliked successfully",
		"comment": comment,
	})
}
