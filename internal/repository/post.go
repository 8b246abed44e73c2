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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	GetByCommunityID(ctx context.Context, communityID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	GetByCommunityIDs(ctx context.Context, communityIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		defer observability.TrackQuery("select", "posts")()
		if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Preload("Community").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// Only anonymous reads are cacheable: liked status is viewer-specific.
	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Community").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByCommunityID(ctx context.Context, communityID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// GetByCommunityIDs returns the newest posts across the given communities,
// interleaved by creation time. Used for the aggregated feed.
func (r *postRepository) GetByCommunityIDs(ctx context.Context, communityIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if len(communityIDs) == 0 {
		return []*models.Post{}, nil
	}

	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Community").
		Where("community_id IN ?", communityIDs).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Community").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// Like inserts the like row, ignoring the insert when it already exists.
// ON CONFLICT DO NOTHING keeps concurrent double-likes from erroring.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	like := &models.PostLike{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}
