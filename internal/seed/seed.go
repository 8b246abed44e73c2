package seed

import (
	"fmt"
	"log"

	"communityhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumCommunities int
	NumPosts       int
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded rows in foreign-key order.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{
		"comment_likes", "comments", "post_likes", "posts",
		"community_members", "communities", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Seed populates the database: users, communities with overlapping
// memberships, posts by members, comments with replies, and likes.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users, %d communities, %d posts...",
		opts.NumUsers, opts.NumCommunities, opts.NumPosts)

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	communities, err := s.seedCommunities(users, opts.NumCommunities)
	if err != nil {
		return fmt.Errorf("failed to seed communities: %w", err)
	}
	log.Printf("Created %d communities", len(communities))

	posts, err := s.seedPosts(users, communities, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	if err := s.seedEngagement(users, posts); err != nil {
		return fmt.Errorf("failed to seed engagement: %w", err)
	}
	log.Println("Seeding complete")
	return nil
}

func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A couple of predictable accounts for manual testing.
	for _, name := range []string{"alice", "bob"} {
		name := name
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.Username = name
			u.Email = fmt.Sprintf("%s@example.com", name)
		})
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	for len(users) < count {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedCommunities(users []*models.User, count int) ([]*models.Community, error) {
	communities := make([]*models.Community, 0, count)
	for i := 0; i < count; i++ {
		creator := users[gofakeit.Number(0, len(users)-1)]
		community, err := s.factory.CreateCommunity(creator)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)

		// Each community picks up a random slice of other users as members.
		for _, user := range users {
			if user.ID == creator.ID || gofakeit.Number(0, 2) != 0 {
				continue
			}
			if err := s.factory.AddMember(community, user); err != nil {
				return nil, err
			}
		}
	}
	return communities, nil
}

func (s *Seeder) seedPosts(users []*models.User, communities []*models.Community, count int) ([]*models.Post, error) {
	if len(communities) == 0 {
		return nil, nil
	}

	memberIDs := make(map[uint][]uint, len(communities))
	for _, community := range communities {
		var ids []uint
		if err := s.db.Model(&models.CommunityMember{}).
			Where("community_id = ?", community.ID).
			Pluck("user_id", &ids).Error; err != nil {
			return nil, err
		}
		memberIDs[community.ID] = ids
	}

	usersByID := make(map[uint]*models.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		community := communities[gofakeit.Number(0, len(communities)-1)]
		ids := memberIDs[community.ID]
		if len(ids) == 0 {
			continue
		}
		author := usersByID[ids[gofakeit.Number(0, len(ids)-1)]]
		post, err := s.factory.CreatePost(author, community)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedEngagement(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		// A handful of likes per post, unique per user.
		for _, user := range pickUsers(users, gofakeit.Number(0, 5)) {
			if err := s.factory.CreatePostLike(user, post); err != nil {
				return err
			}
		}

		if gofakeit.Number(0, 1) == 0 {
			continue
		}
		commenter := users[gofakeit.Number(0, len(users)-1)]
		comment, err := s.factory.CreateComment(commenter, post, nil)
		if err != nil {
			return err
		}
		if gofakeit.Number(0, 2) == 0 {
			replier := users[gofakeit.Number(0, len(users)-1)]
			if _, err := s.factory.CreateComment(replier, post, comment); err != nil {
				return err
			}
		}
		for _, user := range pickUsers(users, gofakeit.Number(0, 3)) {
			if err := s.factory.CreateCommentLike(user, comment); err != nil {
				return err
			}
		}
	}
	return nil
}

// pickUsers returns up to n distinct users.
func pickUsers(users []*models.User, n int) []*models.User {
	if n >= len(users) {
		n = len(users)
	}
	picked := make([]*models.User, 0, n)
	seen := make(map[uint]bool, n)
	for len(picked) < n {
		user := users[gofakeit.Number(0, len(users)-1)]
		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		picked = append(picked, user)
	}
	return picked
}
