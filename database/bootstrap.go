package database

import (
	"log"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"

	"canecycle/entities"
)

func OpenSQLite(path string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("automigrate: %v", err)
	}
	return db
}

// Migrate runs AutoMigrate for all engine entities. Split out so tests can
// open :memory: databases without going through the fatal path.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Bloc{},
		&entities.CropCycle{},
		&entities.Observation{},
		&entities.Activity{},
	)
}
