package server

import (
	"context"
	"errors"
	"time"

	"communityhub/internal/models"
	"communityhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxProfilePicBytes = 5 * 1024 * 1024

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	page := parsePagination(c, 100)

	users, err := s.userService.ListUsers(ctx, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return respondServiceError(c, err)
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return c.JSON(profiles)
}

// GetUserProfile handles GET /api/users/profile/:userId
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user.Public())
}

// UpdateMyProfile handles PATCH /api/users/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
		Avatar    string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    userID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user.Public(),
	})
}

// UploadProfilePic handles POST /api/users/profile/upload-pic
func (s *Server) UploadProfilePic(c *fiber.Ctx) error {
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("profilePic")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}
	if fileHeader.Size > maxProfilePicBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File too large (max 5MB)"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	user, err := s.userService.UploadProfilePic(c.Context(), service.UploadProfilePicInput{
		UserID:      userID,
		Reader:      file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":         "Profile picture uploaded successfully",
		"profile_pic_url": user.ProfilePicURL,
		"user":            user.Public(),
	})
}
