package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/RYAHE/Ruche-RS/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultSeedPassword is the plaintext password every seeded account gets,
// so developers can log in as any of them.
const defaultSeedPassword = "Password123"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
	// hash is computed once; bcrypt per seeded user is too slow.
	hash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hashed, _ := bcrypt.GenerateFromPassword([]byte(defaultSeedPassword), bcrypt.DefaultCost)
	return &Factory{
		db:   db,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		hash: string(hashed),
	}
}

// backdate spreads created_at over the last maxDays days.
func (f *Factory) backdate(maxDays int) time.Time {
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:     fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 999)),
		Email:        gofakeit.Email(),
		PasswordHash: f.hash,
		CreatedAt:    f.backdate(180),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a post by the given user in the given
// category.
func (f *Factory) CreatePost(user *models.User, categoryID uint, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:      gofakeit.Sentence(f.rng.Intn(6) + 3),
		Content:    gofakeit.Paragraph(1, 4, 8, "\n\n"),
		UserID:     user.ID,
		CategoryID: categoryID,
		CreatedAt:  f.backdate(90),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a comment on the given post.
func (f *Factory) CreateComment(user *models.User, postID uint, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Paragraph(1, 2, 6, " "),
		UserID:    user.ID,
		PostID:    postID,
		CreatedAt: f.backdate(30),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// LikePost records a like, silently ignoring duplicates from the random
// picker.
func (f *Factory) LikePost(userID, postID uint) error {
	return f.db.Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	).Error
}

// LikeComment records a comment like, ignoring duplicates.
func (f *Factory) LikeComment(userID, commentID uint) error {
	return f.db.Exec(
		`INSERT INTO comment_likes (user_id, comment_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, comment_id) DO NOTHING`,
		userID, commentID,
	).Error
}
