// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"log"
	"math/rand"
	"time"

	"github.com/RYAHE/Ruche-RS/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var defaultCategories = []models.Category{
	{Name: "General", Description: "Anything that does not fit elsewhere"},
	{Name: "Technology", Description: "Hardware, software and everything between"},
	{Name: "Gaming", Description: "Video games, board games, table talk"},
	{Name: "Music", Description: "Albums, gigs and recommendations"},
	{Name: "Books", Description: "What are you reading?"},
	{Name: "Food", Description: "Recipes and restaurant finds"},
	{Name: "Confessions", Description: "Things best said anonymously"},
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rng     *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Likes go first, then comments, posts,
// categories and users, so the foreign keys never complain.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{"comment_likes", "likes", "comments", "posts", "categories", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// Categories inserts the built-in category set, skipping names that exist.
func (s *Seeder) Categories() ([]models.Category, error) {
	for i := range defaultCategories {
		category := defaultCategories[i]
		err := s.db.Where("name = ?", category.Name).
			FirstOrCreate(&defaultCategories[i], category).Error
		if err != nil {
			return nil, err
		}
	}
	return defaultCategories, nil
}

// Seed populates users, posts, comments and likes. Roughly a quarter of the
// posts and comments are created anonymous so the masking paths have data to
// chew on in development.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	categories, err := s.Categories()
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[s.rng.Intn(len(users))]
		category := categories[s.rng.Intn(len(categories))]
		post, err := s.factory.CreatePost(author, category.ID, func(p *models.Post) {
			p.Anonymous = s.rng.Intn(4) == 0
		})
		if err != nil {
			return err
		}
		posts = append(posts, post)
	}

	commentCount := 0
	likeCount := 0
	for _, post := range posts {
		for i := 0; i < s.rng.Intn(6); i++ {
			commenter := users[s.rng.Intn(len(users))]
			comment, err := s.factory.CreateComment(commenter, post.ID, func(cm *models.Comment) {
				cm.Anonymous = s.rng.Intn(4) == 0
			})
			if err != nil {
				return err
			}
			commentCount++

			for j := 0; j < s.rng.Intn(3); j++ {
				liker := users[s.rng.Intn(len(users))]
				if err := s.factory.LikeComment(liker.ID, comment.ID); err != nil {
					return err
				}
			}
		}

		for i := 0; i < s.rng.Intn(len(users)/2+1); i++ {
			liker := users[s.rng.Intn(len(users))]
			if err := s.factory.LikePost(liker.ID, post.ID); err != nil {
				return err
			}
			likeCount++
		}
	}

	log.Printf("Seeded %d users, %d categories, %d posts, %d comments, ~%d likes",
		len(users), len(categories), len(posts), commentCount, likeCount)
	return nil
}
