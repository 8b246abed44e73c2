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

// CommunityRepository defines persistence operations for communities and memberships.
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	List(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Community, error)
	ListCreatedBy(ctx context.Context, userID uint) ([]*models.Community, error)
	Update(ctx context.Context, community *models.Community) error
	Delete(ctx context.Context, id uint) error
	IsMember(ctx context.Context, communityID, userID uint) (bool, error)
	AddMember(ctx context.Context, communityID, userID uint) error
	RemoveMember(ctx context.Context, communityID, userID uint) error
	MemberCommunityIDs(ctx context.Context, userID uint) ([]uint, error)
	GetMembers(ctx context.Context, communityID uint) ([]models.PublicProfile, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository returns a new CommunityRepository implementation.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

// applyCommunityDetails adds a subquery to fetch the member count in a single query.
func (r *communityRepository) applyCommunityDetails(db *gorm.DB) *gorm.DB {
	return db.Select("communities.*, " +
		"(SELECT COUNT(*) FROM community_members WHERE community_members.community_id = communities.id) as member_count")
}

// Create inserts the community and its creator membership in one transaction.
func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	defer observability.TrackQuery("insert", "communities")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		member := &models.CommunityMember{
			CommunityID: community.ID,
			UserID:      community.CreatedByUserID,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.CommunityListKey)
	return nil
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	defer observability.TrackQuery("select", "communities")()
	var community models.Community
	if err := r.applyCommunityDetails(r.db.WithContext(ctx)).
		Preload("CreatedByUser").
		First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Community", id)
		}
		return nil, models.NewInternalError(err)
	}

	members, err := r.GetMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	community.Members = members
	return &community, nil
}

// List returns communities visible to the viewer, newest first. Private
// communities are hidden unless the viewer created or joined them.
func (r *communityRepository) List(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Community, error) {
	defer observability.TrackQuery("select", "communities")()
	var communities []*models.Community
	q := r.applyCommunityDetails(r.db.WithContext(ctx)).
		Preload("CreatedByUser")

	if viewerID == 0 {
		q = q.Where("is_private = ?", false)
	} else {
		q = q.Where(
			"is_private = ? OR created_by_user_id = ? OR communities.id IN (SELECT community_id FROM community_members WHERE user_id = ?)",
			false, viewerID, viewerID,
		)
	}

	if err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

func (r *communityRepository) ListCreatedBy(ctx context.Context, userID uint) ([]*models.Community, error) {
	var communities []*models.Community
	if err := r.applyCommunityDetails(r.db.WithContext(ctx)).
		Preload("CreatedByUser").
		Where("created_by_user_id = ?", userID).
		Order("created_at DESC").
		Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

func (r *communityRepository) Update(ctx context.Context, community *models.Community) error {
	if err := r.db.WithContext(ctx).Save(community).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunity(ctx, community.ID)
	return nil
}

// Delete removes the community and all dependent rows in one transaction:
// memberships, posts, their comments, and the like rows for both.
func (r *communityRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := func() *gorm.DB {
			return tx.Session(&gorm.Session{NewDB: true}).
				Model(&models.Post{}).Select("id").Where("community_id = ?", id)
		}

		if err := tx.Unscoped().
			Where("comment_id IN (SELECT id FROM comments WHERE post_id IN (?))", postIDs()).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id IN (?)", postIDs()).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id IN (?)", postIDs()).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("community_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("community_id = ?", id).Delete(&models.CommunityMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Community{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunity(ctx, id)
	return nil
}

func (r *communityRepository) IsMember(ctx context.Context, communityID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AddMember inserts the membership, ignoring the insert when it already
// exists so concurrent joins stay idempotent.
func (r *communityRepository) AddMember(ctx context.Context, communityID, userID uint) error {
	member := &models.CommunityMember{CommunityID: communityID, UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunity(ctx, communityID)
	cache.Invalidate(ctx, cache.UserCommunitiesKey(userID))
	return nil
}

func (r *communityRepository) RemoveMember(ctx context.Context, communityID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunity(ctx, communityID)
	cache.Invalidate(ctx, cache.UserCommunitiesKey(userID))
	return nil
}

// MemberCommunityIDs returns the IDs of communities the user joined or created.
func (r *communityRepository) MemberCommunityIDs(ctx context.Context, userID uint) ([]uint, error) {
	var joined []uint
	if err := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &joined).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var created []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Community{}).
		Where("created_by_user_id = ?", userID).
		Pluck("id", &created).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	seen := make(map[uint]struct{}, len(joined)+len(created))
	ids := make([]uint, 0, len(joined)+len(created))
	for _, id := range append(joined, created...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *communityRepository) GetMembers(ctx context.Context, communityID uint) ([]models.PublicProfile, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN community_members ON community_members.user_id = users.id").
		Where("community_members.community_id = ?", communityID).
		Order("community_members.created_at ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}
