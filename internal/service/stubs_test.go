package service

import (
	"context"
	"testing"

	"communityhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Function-field stubs for the repository interfaces. Each noop constructor
// returns a stub whose fields can be overridden per test.

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

type communityRepoStub struct {
	createFn             func(context.Context, *models.Community) error
	getByIDFn            func(context.Context, uint) (*models.Community, error)
	listFn               func(context.Context, uint, int, int) ([]*models.Community, error)
	listCreatedByFn      func(context.Context, uint) ([]*models.Community, error)
	updateFn             func(context.Context, *models.Community) error
	deleteFn             func(context.Context, uint) error
	isMemberFn           func(context.Context, uint, uint) (bool, error)
	addMemberFn          func(context.Context, uint, uint) error
	removeMemberFn       func(context.Context, uint, uint) error
	memberCommunityIDsFn func(context.Context, uint) ([]uint, error)
	getMembersFn         func(context.Context, uint) ([]models.PublicProfile, error)
}

func (s *communityRepoStub) Create(ctx context.Context, c *models.Community) error {
	return s.createFn(ctx, c)
}
func (s *communityRepoStub) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	return s.getByIDFn(ctx, id)
}
func (s *communityRepoStub) List(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Community, error) {
	return s.listFn(ctx, viewerID, limit, offset)
}
func (s *communityRepoStub) ListCreatedBy(ctx context.Context, userID uint) ([]*models.Community, error) {
	return s.listCreatedByFn(ctx, userID)
}
func (s *communityRepoStub) Update(ctx context.Context, c *models.Community) error {
	return s.updateFn(ctx, c)
}
func (s *communityRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *communityRepoStub) IsMember(ctx context.Context, communityID, userID uint) (bool, error) {
	return s.isMemberFn(ctx, communityID, userID)
}
func (s *communityRepoStub) AddMember(ctx context.Context, communityID, userID uint) error {
	return s.addMemberFn(ctx, communityID, userID)
}
func (s *communityRepoStub) RemoveMember(ctx context.Context, communityID, userID uint) error {
	return s.removeMemberFn(ctx, communityID, userID)
}
func (s *communityRepoStub) MemberCommunityIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.memberCommunityIDsFn(ctx, userID)
}
func (s *communityRepoStub) GetMembers(ctx context.Context, communityID uint) ([]models.PublicProfile, error) {
	return s.getMembersFn(ctx, communityID)
}

func noopCommunityRepo() *communityRepoStub {
	return &communityRepoStub{
		createFn: func(_ context.Context, _ *models.Community) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Community, error) {
			return &models.Community{ID: id}, nil
		},
		listFn:               func(_ context.Context, _ uint, _, _ int) ([]*models.Community, error) { return nil, nil },
		listCreatedByFn:      func(_ context.Context, _ uint) ([]*models.Community, error) { return nil, nil },
		updateFn:             func(_ context.Context, _ *models.Community) error { return nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		isMemberFn:           func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		addMemberFn:          func(_ context.Context, _, _ uint) error { return nil },
		removeMemberFn:       func(_ context.Context, _, _ uint) error { return nil },
		memberCommunityIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		getMembersFn:         func(_ context.Context, _ uint) ([]models.PublicProfile, error) { return nil, nil },
	}
}

type postRepoStub struct {
	createFn            func(context.Context, *models.Post) error
	getByIDFn           func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn       func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	getByCommunityIDFn  func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	getByCommunityIDsFn func(context.Context, []uint, int, int, uint) ([]*models.Post, error)
	listFn              func(context.Context, int, int, uint) ([]*models.Post, error)
	updateFn            func(context.Context, *models.Post) error
	deleteFn            func(context.Context, uint) error
	likeFn              func(context.Context, uint, uint) error
	unlikeFn            func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByCommunityID(ctx context.Context, communityID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByCommunityIDFn(ctx, communityID, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByCommunityIDs(ctx context.Context, communityIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByCommunityIDsFn(ctx, communityIDs, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		getByUserIDFn:       func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		getByCommunityIDFn:  func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		getByCommunityIDsFn: func(_ context.Context, _ []uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listFn:              func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:            func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
		likeFn:              func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:            func(_ context.Context, _, _ uint) error { return nil },
	}
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, uint) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
	likeFn       func(context.Context, uint, uint) error
	unlikeFn     func(context.Context, uint, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID, currentUserID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, currentUserID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) Like(ctx context.Context, userID, commentID uint) error {
	return s.likeFn(ctx, userID, commentID)
}
func (s *commentRepoStub) Unlike(ctx context.Context, userID, commentID uint) error {
	return s.unlikeFn(ctx, userID, commentID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(_ context.Context, _, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		likeFn:       func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:     func(_ context.Context, _, _ uint) error { return nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeConflict)
}
