// Seeds a bootstrap administrator. Approval is admin-gated, so a fresh
// deployment needs one verified, approved admin account before anyone else
// can log in.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"gorm.io/gorm"

	"chathub/internal/auth"
	"chathub/internal/config"
	"chathub/internal/db"
	"chathub/internal/model"
	"chathub/internal/repository"
)

func main() {
	email := flag.String("email", "admin@localhost", "admin email")
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("missing -password")
	}

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Credential{}); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	if existing, err := userRepo.FindByEmail(ctx, *email); err == nil {
		log.Printf("Admin %s already exists (id=%d), nothing to do", existing.Email, existing.ID)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check existing admin: %v", err)
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost, 1)
	hash, err := hasher.Hash(ctx, *password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &model.User{
		Email:         *email,
		EmailVerified: true,
		IsApproved:    true,
		Role:          model.RoleAdmin,
	}
	err = userRepo.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, creds repository.CredentialRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		return creds.Create(ctx, &model.Credential{
			UserID:       user.ID,
			Username:     *username,
			PasswordHash: hash,
		})
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Created admin %s (id=%d)", user.Email, user.ID)
}
