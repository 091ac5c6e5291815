// Package main provides admin management utilities for the Ruche API.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/RYAHE/Ruche-RS/internal/config"
	"github.com/RYAHE/Ruche-RS/internal/database"
	"github.com/RYAHE/Ruche-RS/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>    - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id>     - Demote user from admin")
		fmt.Println("  go run ./cmd/admin list-admins          - List all admins")
		fmt.Println("  go run ./cmd/admin bootstrap            - Create the default admin account")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <user_id>")
			os.Exit(1)
		}
		promoteToAdmin(db, os.Args[2])

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <user_id>")
			os.Exit(1)
		}
		demoteFromAdmin(db, os.Args[2])

	case "list-admins":
		listAdmins(db)

	case "bootstrap":
		bootstrapAdmin(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func promoteToAdmin(db *gorm.DB, userID string) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.IsAdmin {
		fmt.Printf("User %s (ID: %d) is already an admin\n", user.Username, user.ID)
		return
	}

	user.IsAdmin = true
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}

	fmt.Printf("Promoted %s (ID: %d) to admin\n", user.Username, user.ID)
}

func demoteFromAdmin(db *gorm.DB, userID string) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if !user.IsAdmin {
		fmt.Printf("User %s (ID: %d) is not an admin\n", user.Username, user.ID)
		return
	}

	user.IsAdmin = false
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to demote user: %v", err)
	}

	fmt.Printf("Demoted %s (ID: %d) from admin\n", user.Username, user.ID)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}

	fmt.Printf("Admins (%d):\n", len(admins))
	for _, admin := range admins {
		fmt.Printf("  %d  %s  <%s>\n", admin.ID, admin.Username, admin.Email)
	}
}

// bootstrapAdmin creates the initial admin account from ADMIN_EMAIL,
// ADMIN_USERNAME and ADMIN_PASSWORD. If a user with that email already
// exists it is promoted instead.
func bootstrapAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")

	if email == "" || username == "" || password == "" {
		fmt.Println("Set ADMIN_EMAIL, ADMIN_USERNAME and ADMIN_PASSWORD before running bootstrap")
		os.Exit(1)
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.IsAdmin {
			fmt.Printf("Admin %s (ID: %d) already exists\n", existing.Username, existing.ID)
			return
		}
		existing.IsAdmin = true
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("Failed to promote existing user: %v", err)
		}
		fmt.Printf("Promoted existing user %s (ID: %d) to admin\n", existing.Username, existing.ID)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Database error: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Created admin %s (ID: %d)\n", admin.Username, admin.ID)
}
