package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"communityhub/internal/config"
	"communityhub/internal/models"
	"communityhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret, issuer, audience string, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": issuer,
		"aud": audience,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByCommunityID(ctx context.Context, communityID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, communityID, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByCommunityIDs(ctx context.Context, communityIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, communityIDs, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) Unlike(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func newPostTestServer(posts *MockPostRepository, communities *MockCommunityRepository) *Server {
	s := &Server{postRepo: posts, communityRepo: communities}
	s.postService = service.NewPostService(posts, communities)
	return s
}

func TestCreatePost(t *testing.T) {
	t.Run("member creates post", func(t *testing.T) {
		posts := new(MockPostRepository)
		communities := new(MockCommunityRepository)
		communities.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Community{ID: 5, CreatedByUserID: 99}, nil)
		communities.On("IsMember", mock.Anything, uint(5), uint(1)).Return(true, nil)
		posts.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Post).ID = 10
		}).Return(nil)
		posts.On("GetByID", mock.Anything, uint(10), uint(1)).
			Return(&models.Post{ID: 10, Content: "hello neighbors", CommunityID: 5, UserID: 1}, nil)

		s := newPostTestServer(posts, communities)
		app := fiber.New()
		app.Post("/posts", withUserID(1), s.CreatePost)

		body, _ := json.Marshal(map[string]any{"content": "hello neighbors", "community_id": 5})
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var respBody map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respBody))
		assert.Equal(t, "Post created successfully", respBody["message"])
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		posts := new(MockPostRepository)
		communities := new(MockCommunityRepository)
		communities.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Community{ID: 5, CreatedByUserID: 99}, nil)
		communities.On("IsMember", mock.Anything, uint(5), uint(1)).Return(false, nil)

		s := newPostTestServer(posts, communities)
		app := fiber.New()
		app.Post("/posts", withUserID(1), s.CreatePost)

		body, _ := json.Marshal(map[string]any{"content": "hello neighbors", "community_id": 5})
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing community id", func(t *testing.T) {
		s := newPostTestServer(new(MockPostRepository), new(MockCommunityRepository))
		app := fiber.New()
		app.Post("/posts", withUserID(1), s.CreatePost)

		body, _ := json.Marshal(map[string]any{"content": "hello neighbors"})
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetPost(t *testing.T) {
	posts := new(MockPostRepository)
	communities := new(MockCommunityRepository)
	s := newPostTestServer(posts, communities)
	s.config = &config.Config{JWTSecret: "test_secret"}

	app := fiber.New()
	app.Get("/posts/:id", s.GetPost)

	t.Run("found", func(t *testing.T) {
		posts.On("GetByID", mock.Anything, uint(1), uint(0)).
			Return(&models.Post{ID: 1, Content: "hello"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		posts.On("GetByID", mock.Anything, uint(404), uint(0)).
			Return(nil, models.NewNotFoundError("Post", uint(404))).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/404", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("valid token sets viewer", func(t *testing.T) {
		posts.On("GetByID", mock.Anything, uint(1), uint(42)).
			Return(&models.Post{ID: 1, Content: "hello", Liked: true}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test_secret", tokenIssuer, tokenAudience, 42))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong issuer is treated as anonymous", func(t *testing.T) {
		posts.On("GetByID", mock.Anything, uint(1), uint(0)).
			Return(&models.Post{ID: 1, Content: "hello"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test_secret", "some-other-issuer", tokenAudience, 42))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		posts.AssertExpectations(t)
	})
}

func TestGetFeed(t *testing.T) {
	posts := new(MockPostRepository)
	communities := new(MockCommunityRepository)
	s := newPostTestServer(posts, communities)

	app := fiber.New()
	app.Get("/posts/feed", withUserID(1), s.GetFeed)

	t.Run("empty membership yields empty array", func(t *testing.T) {
		communities.On("MemberCommunityIDs", mock.Anything, uint(1)).Return([]uint{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/feed", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body []any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Empty(t, body)
	})

	t.Run("returns posts from member communities", func(t *testing.T) {
		communities.On("MemberCommunityIDs", mock.Anything, uint(1)).Return([]uint{3}, nil).Once()
		posts.On("GetByCommunityIDs", mock.Anything, []uint{3}, 20, 0, uint(1)).
			Return([]*models.Post{{ID: 7, CommunityID: 3}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/feed", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
	})
}

func TestDeletePost_NonAuthor(t *testing.T) {
	posts := new(MockPostRepository)
	communities := new(MockCommunityRepository)
	posts.On("GetByID", mock.Anything, uint(10), uint(1)).
		Return(&models.Post{ID: 10, UserID: 7}, nil)

	s := newPostTestServer(posts, communities)
	app := fiber.New()
	app.Delete("/posts/:id", withUserID(1), s.DeletePost)

	req := httptest.NewRequest(http.MethodDelete, "/posts/10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	posts.AssertNotCalled(t, "Delete", mock.Anything, uint(10))
}

func TestLikePost(t *testing.T) {
	posts := new(MockPostRepository)
	communities := new(MockCommunityRepository)
	posts.On("GetByID", mock.Anything, uint(10), uint(1)).
		Return(&models.Post{ID: 10, UserID: 7, LikesCount: 1, Liked: true}, nil)
	posts.On("Like", mock.Anything, uint(1), uint(10)).Return(nil)

	s := newPostTestServer(posts, communities)
	app := fiber.New()
	app.Post("/posts/:id/like", withUserID(1), s.LikePost)

	req := httptest.NewRequest(http.MethodPost, "/posts/10/like", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Post liked successfully", body["message"])
}
