package service

import (
	"context"
	"strings"

	"communityhub/internal/cache"
	"communityhub/internal/models"
	"communityhub/internal/observability"
	"communityhub/internal/repository"
)

// defaultListLimit matches the handlers' default page size.
const defaultListLimit = 20

type CommunityService struct {
	communityRepo repository.CommunityRepository
}

type CreateCommunityInput struct {
	UserID      uint
	Name        string
	Description string
	Category    string
	IsPrivate   bool
}

type UpdateCommunityInput struct {
	UserID      uint
	CommunityID uint
	Name        string
	Description string
	Category    string
	IsPrivate   *bool
}

func NewCommunityService(communityRepo repository.CommunityRepository) *CommunityService {
	return &CommunityService{communityRepo: communityRepo}
}

func validateCommunityName(name string) error {
	if len(name) < 3 || len(name) > 50 {
		return models.NewValidationError("Name must be between 3 and 50 characters")
	}
	return nil
}

func validateCommunityDescription(description string) error {
	if len(description) < 10 || len(description) > 500 {
		return models.NewValidationError("Description must be between 10 and 500 characters")
	}
	return nil
}

func (s *CommunityService) CreateCommunity(ctx context.Context, in CreateCommunityInput) (*models.Community, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)

	if err := validateCommunityName(name); err != nil {
		return nil, err
	}
	if err := validateCommunityDescription(description); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "general"
	}

	community := &models.Community{
		Name:            name,
		Description:     description,
		Category:        category,
		IsPrivate:       in.IsPrivate,
		CreatedByUserID: in.UserID,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}

	return s.communityRepo.GetByID(ctx, community.ID)
}

func (s *CommunityService) GetCommunity(ctx context.Context, id uint) (*models.Community, error) {
	return s.communityRepo.GetByID(ctx, id)
}

func (s *CommunityService) ListCommunities(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Community, error) {
	// Only the anonymous default page is cacheable: visibility is
	// viewer-specific and the key does not encode the page shape.
	if viewerID == 0 && offset == 0 && limit == defaultListLimit {
		var communities []*models.Community
		err := cache.Aside(ctx, cache.CommunityListKey, &communities, cache.CommunityListTTL, func() error {
			var fetchErr error
			communities, fetchErr = s.communityRepo.List(ctx, 0, limit, offset)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return communities, nil
	}

	return s.communityRepo.List(ctx, viewerID, limit, offset)
}

// MyCommunities returns the communities the user created. Joined communities
// are deliberately excluded; the feed is where both sources union up.
func (s *CommunityService) MyCommunities(ctx context.Context, userID uint) ([]*models.Community, error) {
	return s.communityRepo.ListCreatedBy(ctx, userID)
}

func (s *CommunityService) UpdateCommunity(ctx context.Context, in UpdateCommunityInput) (*models.Community, error) {
	community, err := s.communityRepo.GetByID(ctx, in.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.CreatedByUserID != in.UserID {
		return nil, models.NewForbiddenError("Only the community creator can update it")
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if err := validateCommunityName(name); err != nil {
			return nil, err
		}
		community.Name = name
	}
	if description := strings.TrimSpace(in.Description); description != "" {
		if err := validateCommunityDescription(description); err != nil {
			return nil, err
		}
		community.Description = description
	}
	if category := strings.TrimSpace(in.Category); category != "" {
		community.Category = category
	}
	if in.IsPrivate != nil {
		community.IsPrivate = *in.IsPrivate
	}

	if err := s.communityRepo.Update(ctx, community); err != nil {
		return nil, err
	}
	return s.communityRepo.GetByID(ctx, in.CommunityID)
}

func (s *CommunityService) DeleteCommunity(ctx context.Context, userID, communityID uint) error {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	if community.CreatedByUserID != userID {
		return models.NewForbiddenError("Only the community creator can delete it")
	}
	return s.communityRepo.Delete(ctx, communityID)
}

func (s *CommunityService) JoinCommunity(ctx context.Context, userID, communityID uint) (*models.Community, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}

	isMember, err := s.communityRepo.IsMember(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, models.NewConflictError("Already a member")
	}

	if err := s.communityRepo.AddMember(ctx, communityID, userID); err != nil {
		return nil, err
	}
	observability.MembershipEventsTotal.WithLabelValues("join").Inc()

	return s.communityRepo.GetByID(ctx, communityID)
}

// LeaveCommunity is idempotent: leaving a community the user never joined is a no-op.
func (s *CommunityService) LeaveCommunity(ctx context.Context, userID, communityID uint) error {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return err
	}
	if err := s.communityRepo.RemoveMember(ctx, communityID, userID); err != nil {
		return err
	}
	observability.MembershipEventsTotal.WithLabelValues("leave").Inc()
	return nil
}
