package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"communityhub/internal/middleware"
	"communityhub/internal/models"
	"communityhub/internal/observability"
	"communityhub/internal/repository"
	"communityhub/internal/storage"
	"communityhub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type UserService struct {
	userRepo repository.UserRepository
	store    storage.ObjectStore
}

type UpdateProfileInput struct {
	UserID    uint
	Username  string
	FirstName string
	LastName  string
	Bio       string
	Avatar    string
}

type UploadProfilePicInput struct {
	UserID      uint
	Reader      io.Reader
	Size        int64
	ContentType string
}

func NewUserService(userRepo repository.UserRepository, store storage.ObjectStore) *UserService {
	return &UserService{userRepo: userRepo, store: store}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.FirstName != "" {
		if err := validation.ValidateName("first name", in.FirstName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.FirstName = strings.TrimSpace(in.FirstName)
	}
	if in.LastName != "" {
		if err := validation.ValidateName("last name", in.LastName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.LastName = strings.TrimSpace(in.LastName)
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UploadProfilePic stores the image in object storage and points the user at
// the new URL. The user record is only updated after the upload confirms, so
// a failed upload never corrupts the stored reference. Deleting the previous
// picture is best-effort: failure is logged and swallowed.
func (s *UserService) UploadProfilePic(ctx context.Context, in UploadProfilePicInput) (*models.User, error) {
	if s.store == nil {
		return nil, models.NewInternalError(fmt.Errorf("object storage is not configured"))
	}
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, models.NewValidationError("Only image uploads are allowed")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	span, ctx := observability.NewSpan(ctx, "storage.upload_profile_pic")
	defer span.End()
	span.AddAttributes(
		attribute.String("upload.content_type", in.ContentType),
		attribute.Int64("upload.size", in.Size),
	)

	key := fmt.Sprintf("profile-pics/%d-%d", in.UserID, time.Now().UnixMilli())
	url, err := s.store.Upload(ctx, key, in.Reader, in.Size, in.ContentType)
	if err != nil {
		observability.ProfilePicUploadsTotal.WithLabelValues("error").Inc()
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	previous := user.ProfilePicURL
	user.ProfilePicURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	observability.ProfilePicUploadsTotal.WithLabelValues("success").Inc()

	if oldKey := objectKeyFromURL(previous); oldKey != "" {
		if err := s.store.Remove(ctx, oldKey); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete previous profile picture",
				slog.String("key", oldKey),
				slog.String("error", err.Error()),
			)
		}
	}

	return user, nil
}

// objectKeyFromURL extracts the "profile-pics/..." object key from a stored URL.
func objectKeyFromURL(url string) string {
	idx := strings.Index(url, "profile-pics/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
