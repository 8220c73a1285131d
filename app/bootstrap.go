package app

import (
	"context"
	"errors"
	"log"

	"library_circulation/db"
	"library_circulation/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BootstrapFirstManager seeds a manager account from the environment so
// a fresh deployment has someone who can manage the catalog. No-op when
// unconfigured or when the account already exists.
func BootstrapFirstManager(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}

	_, err := repo.FindUserByEmail(ctx, cfg.BootstrapEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("bootstrap manager lookup failed: %v", err)
		return
	}

	hash, err := HashPassword(cfg.BootstrapPassword)
	if err != nil {
		log.Printf("bootstrap manager hash failed: %v", err)
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        cfg.BootstrapEmail,
		FirstName:    "Library",
		LastName:     "Manager",
		Role:         models.RoleManager,
		PasswordHash: hash,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap manager create failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] created manager account %s", cfg.BootstrapEmail)
}
