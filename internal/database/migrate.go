package database

import (
	"datagov/internal/models"

	"gorm.io/gorm"
)

// MigrationModels lists every model managed by AutoMigrate, in dependency order.
func MigrationModels() []interface{} {
	return []interface{}{
		&models.UserProfile{},
		&models.AuditEntry{},
		&models.UserPreferences{},
		&models.UserPost{},
	}
}

// Migrate applies schema migrations for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(MigrationModels()...)
}
