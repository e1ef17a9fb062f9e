package database

import (
	"fmt"

	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/logger"
	"github.com/gazer/client-registry/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates the schema and seeds the static role table.
func Migrate(db *gorm.DB) error {
	log := logger.Get()
	log.Info().Msg("Running database migrations...")

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Client{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := SeedRoles(db); err != nil {
		return err
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

// SeedRoles inserts the default USER role when missing.
func SeedRoles(db *gorm.DB) error {
	role := models.Role{ID: constants.DefaultRoleID, RoleName: constants.DefaultRoleName}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error; err != nil {
		return fmt.Errorf("failed to seed role %s: %w", role.RoleName, err)
	}
	return nil
}
