package db

import (
	"github.com/hirehub-dev/hirehub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(db *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Project{},
		&models.SavedProject{},
		&models.Message{},
	}

	migrator := db.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := db.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}
