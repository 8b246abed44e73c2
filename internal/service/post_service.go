package service

import (
	"context"
	"strconv"
	"strings"

	"communityhub/internal/models"
	"communityhub/internal/observability"
	"communityhub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo      repository.PostRepository
	communityRepo repository.CommunityRepository
}

type CreatePostInput struct {
	UserID      uint
	Content     string
	CommunityID uint
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	communityRepo repository.CommunityRepository,
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		communityRepo: communityRepo,
	}
}

const maxPostContentLen = 5000

func validatePostContent(content string) error {
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxPostContentLen {
		return models.NewValidationError("Content too long (max 5000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if err := validatePostContent(content); err != nil {
		return nil, err
	}

	community, err := s.communityRepo.GetByID(ctx, in.CommunityID)
	if err != nil {
		return nil, err
	}

	// Membership is checked at creation only; the author keeping it is not re-validated later.
	if community.CreatedByUserID != in.UserID {
		isMember, err := s.communityRepo.IsMember(ctx, in.CommunityID, in.UserID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, models.NewForbiddenError("You must be a member of the community to post")
		}
	}

	post := &models.Post{
		Content:     content,
		UserID:      in.UserID,
		CommunityID: in.CommunityID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreatedTotal.WithLabelValues(strconv.FormatUint(uint64(in.CommunityID), 10)).Inc()

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

func (s *PostService) ListCommunityPosts(ctx context.Context, communityID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByCommunityID(ctx, communityID, limit, offset, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// GetFeed returns the newest posts from the communities the user joined or
// created. A user with no communities gets an empty feed without touching
// the posts table.
func (s *PostService) GetFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	communityIDs, err := s.communityRepo.MemberCommunityIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	observability.FeedRequestsTotal.Inc()
	observability.AddTraceAttributesToContext(ctx,
		attribute.Int("feed.community_count", len(communityIDs)))
	if len(communityIDs) == 0 {
		return []*models.Post{}, nil
	}
	posts, err := s.postRepo.GetByCommunityIDs(ctx, communityIDs, limit, offset, userID)
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return nil, err
	}
	return posts, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	content := strings.TrimSpace(in.Content)
	if err := validatePostContent(content); err != nil {
		return nil, err
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// LikePost is idempotent: liking an already-liked post is a no-op.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// UnlikePost is idempotent: unliking a post that is not liked is a no-op.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}
