// Package bootstrap wires up runtime dependencies shared by the server and
// the auxiliary commands.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/RYAHE/Ruche-RS/internal/cache"
	"github.com/RYAHE/Ruche-RS/internal/config"
	"github.com/RYAHE/Ruche-RS/internal/database"
	"github.com/RYAHE/Ruche-RS/internal/models"
	"github.com/RYAHE/Ruche-RS/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedCategories inserts the built-in category set when the table is
	// missing any of them.
	SeedCategories bool
}

// InitRuntime connects to the database and Redis and applies optional
// development conveniences. The Redis client may be nil if the store is
// unreachable; rate limiting then fails open.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.SeedCategories {
		if _, err := seed.NewSeeder(db).Categories(); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in categories: %w", err)
		}
	}

	return db, r, nil
}

// ensureDevAdmin creates or promotes the configured development admin
// account. It is a no-op outside APP_ENV=development.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	email := strings.TrimSpace(cfg.DevAdminEmail)
	password := cfg.DevAdminPassword
	if username == "" || email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.IsAdmin {
			return nil
		}
		existing.IsAdmin = true
		if err := db.Save(&existing).Error; err != nil {
			return err
		}
		log.Printf("Promoted development admin %s (ID: %d)", existing.Username, existing.ID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created development admin %s (ID: %d)", admin.Username, admin.ID)
	return nil
}
