package service

import (
	"context"
	"strings"

	"communityhub/internal/models"
	"communityhub/internal/observability"
	"communityhub/internal/repository"
)

type CommentService struct {
	commentRepo   repository.CommentRepository
	postRepo      repository.PostRepository
	communityRepo repository.CommunityRepository
}

type CreateCommentInput struct {
	UserID          uint
	PostID          uint
	Content         string
	ParentCommentID *uint
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	communityRepo repository.CommunityRepository,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		postRepo:      postRepo,
		communityRepo: communityRepo,
	}
}

const maxCommentLen = 10000

func validateCommentContent(content string) error {
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	kind := "top_level"
	if in.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID, 0)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		kind = "reply"
	}

	comment := &models.Comment{
		Content:         content,
		UserID:          in.UserID,
		PostID:          in.PostID,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreatedTotal.WithLabelValues(kind).Inc()

	return s.commentRepo.GetByID(ctx, comment.ID, in.UserID)
}

func (s *CommentService) GetComment(ctx context.Context, id uint, currentUserID uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id, currentUserID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, currentUserID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID, currentUserID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}

	content := strings.TrimSpace(in.Content)
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, in.CommentID, in.UserID)
}

// DeleteComment allows the comment author, and additionally the creator of
// the community the comment's post lives in.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		allowed, err := s.isCommunityCreator(ctx, comment.PostID, in.UserID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) isCommunityCreator(ctx context.Context, postID, userID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return false, err
	}
	community, err := s.communityRepo.GetByID(ctx, post.CommunityID)
	if err != nil {
		return false, err
	}
	return community.CreatedByUserID == userID, nil
}

// LikeComment is idempotent: liking an already-liked comment is a no-op.
func (s *CommentService) LikeComment(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID, 0); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Like(ctx, userID, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, commentID, userID)
}

// UnlikeComment is idempotent: unliking a comment that is not liked is a no-op.
func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID, 0); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Unlike(ctx, userID, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, commentID, userID)
}
