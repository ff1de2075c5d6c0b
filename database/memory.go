package database

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/models"
)

// OpenMemory opens a private, migrated in-memory SQLite database. It backs
// tests and the serve --memory flag.
func OpenMemory() (*gorm.DB, error) {
	db, err := Open(config.DatabaseSettings{
		Type:       "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	if err != nil {
		return nil, err
	}
	if err := models.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
