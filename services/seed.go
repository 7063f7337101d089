package services

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// SeedTasks makes sure every name exists in the task catalogue. Existing names are
// left alone, so the call is idempotent. Returns the number of tasks created.
func SeedTasks(db *gorm.DB, names []string) (int, error) {
	created := 0
	for _, raw := range names {
		name := CleanText(raw)
		if name == "" {
			continue
		}

		var count int64
		if err := db.Model(&models.Task{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to check task %q: %w", name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&models.Task{Name: name}).Error; err != nil {
			return created, fmt.Errorf("failed to seed task %q: %w", name, err)
		}
		created++
	}

	if created > 0 {
		InvalidateTaskCache()
		log.Printf("[SEED] Created %d tasks", created)
	}
	return created, nil
}

// SeedBeekeeperFromEnv registers an initial beekeeper from environment variables.
// Only runs if SEED_BEEKEEPER_USERNAME and SEED_BEEKEEPER_PASSWORD are set and the
// username is not taken yet.
func SeedBeekeeperFromEnv(db *gorm.DB) error {
	username := os.Getenv("SEED_BEEKEEPER_USERNAME")
	password := os.Getenv("SEED_BEEKEEPER_PASSWORD")

	// Skip if env vars not set
	if username == "" || password == "" {
		return nil
	}

	number := 0
	if raw := os.Getenv("SEED_BEEKEEPER_NUMBER"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid SEED_BEEKEEPER_NUMBER: %w", err)
		}
		number = parsed
	}

	var count int64
	if err := db.Model(&models.Beekeeper{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("[SEED] Beekeeper %s already exists, skipping seed", username)
		return nil
	}

	beekeeper, err := RegisterBeekeeper(db, RegistrationInput{
		Username:        username,
		Email:           os.Getenv("SEED_BEEKEEPER_EMAIL"),
		Password:        password,
		BeekeeperNumber: number,
	})
	if err != nil {
		return err
	}

	log.Printf("[SEED] Created beekeeper: %s (%d)", beekeeper.Username, beekeeper.BeekeeperNumber)
	return nil
}
