// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"time"

	"communityhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var communityTemplates = []struct {
	Name        string
	Description string
	Category    string
}{
	{"Book Club", "A place to discuss what the neighborhood is reading", "hobbies"},
	{"Community Garden", "Coordinating plots, tools, and harvest swaps", "outdoors"},
	{"Running Group", "Weekly runs around the park, all paces welcome", "sports"},
	{"Board Game Nights", "Casual game nights hosted around the block", "hobbies"},
	{"Local Foodies", "Restaurant finds and potluck planning", "food"},
	{"Parents Circle", "Playdates, school news, and hand-me-downs", "family"},
	{"Tech Tinkerers", "Home automation, 3D printing, and side projects", "technology"},
	{"Neighborhood Watch", "Keeping an eye out for each other", "general"},
	{"Dog Owners", "Walks, sitters, and the occasional lost tennis ball", "pets"},
	{"Music Jam", "Garage sessions and open mic announcements", "music"},
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
// All seed users share the password "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	user := &models.User{
		Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Password:  string(hashedPassword),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Bio:       gofakeit.Sentence(10),
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCommunity persists a community created by the given user, including
// the creator's membership row.
func (f *Factory) CreateCommunity(creator *models.User, overrides ...func(*models.Community)) (*models.Community, error) {
	tpl := communityTemplates[gofakeit.Number(0, len(communityTemplates)-1)]
	community := &models.Community{
		Name:            fmt.Sprintf("%s %s", gofakeit.City(), tpl.Name),
		Description:     tpl.Description,
		Category:        tpl.Category,
		CreatedByUserID: creator.ID,
	}

	for _, override := range overrides {
		override(community)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		return tx.Create(&models.CommunityMember{
			CommunityID: community.ID,
			UserID:      creator.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return community, nil
}

// AddMember persists a membership of user in community.
func (f *Factory) AddMember(community *models.Community, user *models.User) error {
	return f.db.Create(&models.CommunityMember{
		CommunityID: community.ID,
		UserID:      user.ID,
	}).Error
}

// CreatePost persists a post by user in community with a realistic
// created_at spread over the past 90 days.
func (f *Factory) CreatePost(user *models.User, community *models.Community, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Content:     gofakeit.Paragraph(1, 3, 8, "\n"),
		UserID:      user.ID,
		CommunityID: community.ID,
	}
	post.CreatedAt = time.Now().
		Add(-time.Duration(gofakeit.Number(0, 90*24)) * time.Hour).
		Add(-time.Duration(gofakeit.Number(0, 59)) * time.Minute)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on the provided post authored by the
// provided user. Pass a parent to create a reply.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	if parent != nil {
		comment.ParentCommentID = &parent.ID
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreatePostLike persists a like from `user` on `post`.
func (f *Factory) CreatePostLike(user *models.User, post *models.Post) error {
	return f.db.Create(&models.PostLike{
		UserID: user.ID,
		PostID: post.ID,
	}).Error
}

// CreateCommentLike persists a like from `user` on `comment`.
func (f *Factory) CreateCommentLike(user *models.User, comment *models.Comment) error {
	return f.db.Create(&models.CommentLike{
		UserID:    user.ID,
		CommentID: comment.ID,
	}).Error
}
