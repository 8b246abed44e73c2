package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"communityhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// objectStoreStub is a stub for storage.ObjectStore.
type objectStoreStub struct {
	uploadFn func(context.Context, string, io.Reader, int64, string) (string, error)
	removeFn func(context.Context, string) error
}

func (s *objectStoreStub) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	return s.uploadFn(ctx, key, r, size, contentType)
}

func (s *objectStoreStub) Remove(ctx context.Context, key string) error {
	return s.removeFn(ctx, key)
}

func noopObjectStore() *objectStoreStub {
	return &objectStoreStub{
		uploadFn: func(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
			return "http://storage.local/communityhub-profiles/" + key, nil
		},
		removeFn: func(_ context.Context, _ string) error { return nil },
	}
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo(), noopObjectStore())

	t.Run("username too short", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Username: "ab",
		})
		assertValidationError(t, err)
	})

	t.Run("username with invalid characters", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Username: "bad name!",
		})
		assertValidationError(t, err)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})

	t.Run("first name too short", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:    1,
			FirstName: "A",
		})
		assertValidationError(t, err)
	})
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "old_name", Bio: "my bio"}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo, noopObjectStore())

	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:   1,
		Username: "new_name",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "new_name", user.Username)
	assert.Equal(t, "my bio", user.Bio, "untouched fields survive")
}

func TestUserService_UploadProfilePic(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-image content type", func(t *testing.T) {
		t.Parallel()
		store := noopObjectStore()
		store.uploadFn = func(_ context.Context, _ string, _ io.Reader, _ int64, _ string) (string, error) {
			t.Fatal("Upload should not be called for a non-image")
			return "", nil
		}
		svc := NewUserService(noopUserRepo(), store)

		_, err := svc.UploadProfilePic(context.Background(), UploadProfilePicInput{
			UserID:      1,
			Reader:      strings.NewReader("not an image"),
			Size:        12,
			ContentType: "application/pdf",
		})
		assertValidationError(t, err)
	})

	t.Run("failed upload leaves the user untouched", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.updateFn = func(_ context.Context, _ *models.User) error {
			t.Fatal("Update should not be called when the upload fails")
			return nil
		}
		store := noopObjectStore()
		store.uploadFn = func(_ context.Context, _ string, _ io.Reader, _ int64, _ string) (string, error) {
			return "", errors.New("connection reset")
		}
		svc := NewUserService(repo, store)

		_, err := svc.UploadProfilePic(context.Background(), UploadProfilePicInput{
			UserID:      1,
			Reader:      strings.NewReader("fake png"),
			Size:        8,
			ContentType: "image/png",
		})
		require.Error(t, err)
	})

	t.Run("successful upload replaces the previous picture", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, ProfilePicURL: "http://storage.local/communityhub-profiles/profile-pics/1-100"}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		store := noopObjectStore()
		var removedKey string
		store.removeFn = func(_ context.Context, key string) error {
			removedKey = key
			return nil
		}
		svc := NewUserService(repo, store)

		user, err := svc.UploadProfilePic(context.Background(), UploadProfilePicInput{
			UserID:      1,
			Reader:      strings.NewReader("fake png"),
			Size:        8,
			ContentType: "image/png",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Contains(t, user.ProfilePicURL, "profile-pics/1-")
		assert.Equal(t, "profile-pics/1-100", removedKey)
	})

	t.Run("old picture cleanup failure is swallowed", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, ProfilePicURL: "http://storage.local/communityhub-profiles/profile-pics/1-100"}, nil
		}
		store := noopObjectStore()
		store.removeFn = func(_ context.Context, _ string) error {
			return errors.New("object locked")
		}
		svc := NewUserService(repo, store)

		_, err := svc.UploadProfilePic(context.Background(), UploadProfilePicInput{
			UserID:      1,
			Reader:      strings.NewReader("fake png"),
			Size:        8,
			ContentType: "image/png",
		})
		require.NoError(t, err)
	})
}
