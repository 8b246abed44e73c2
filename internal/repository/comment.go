// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"communityhub/internal/cache"
	"communityhub/internal/models"
	"communityhub/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, currentUserID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, commentID uint) error
	Unlike(ctx context.Context, userID, commentID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// applyCommentDetails adds subqueries to fetch like count and liked status in a single query.
func (r *commentRepository) applyCommentDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "comments.*, " +
		"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", "comments")()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostCommentsKey(comment.PostID))
	return nil
}

// GetByID returns the comment with its direct replies attached, newest first.
func (r *commentRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.applyCommentDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}

	replies := []*models.Comment{}
	if err := r.applyCommentDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("parent_comment_id = ?", id).
		Order("created_at DESC").
		Find(&replies).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	comment.Replies = replies
	return &comment, nil
}

// ListByPost returns the post's comments as a two-level tree: top-level
// comments newest first, each with its replies newest first. Anonymous
// reads are served from the cache; liked status is viewer-specific, so
// authenticated reads always hit the database.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, currentUserID uint) ([]*models.Comment, error) {
	if currentUserID == 0 {
		var comments []*models.Comment
		err := cache.Aside(ctx, cache.PostCommentsKey(postID), &comments, cache.CommentsTTL, func() error {
			var fetchErr error
			comments, fetchErr = r.fetchCommentTree(ctx, postID, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return comments, nil
	}
	return r.fetchCommentTree(ctx, postID, currentUserID)
}

func (r *commentRepository) fetchCommentTree(ctx context.Context, postID uint, currentUserID uint) ([]*models.Comment, error) {
	defer observability.TrackQuery("select", "comments")()
	var comments []*models.Comment
	if err := r.applyCommentDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = []*models.Comment{}
		byID[c.ID] = c
	}

	topLevel := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.ParentCommentID == nil {
			topLevel = append(topLevel, c)
			continue
		}
		if parent, ok := byID[*c.ParentCommentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return topLevel, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostCommentsKey(comment.PostID))
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Select("id", "post_id").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostCommentsKey(comment.PostID))
	return nil
}

// Like inserts the like row, ignoring the insert when it already exists.
func (r *commentRepository) Like(ctx context.Context, userID, commentID uint) error {
	like := &models.CommentLike{UserID: userID, CommentID: commentID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.invalidatePostComments(ctx, commentID)
	return nil
}

func (r *commentRepository) Unlike(ctx context.Context, userID, commentID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.invalidatePostComments(ctx, commentID)
	return nil
}

// invalidatePostComments drops the cached comment list for the post the
// comment belongs to. Like counts live inside the cached tree.
func (r *commentRepository) invalidatePostComments(ctx context.Context, commentID uint) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Select("id", "post_id").First(&comment, commentID).Error; err != nil {
		return
	}
	cache.Invalidate(ctx, cache.PostCommentsKey(comment.PostID))
}
