package db

import (
	"log"
	"os"

	"dishrecipes/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=dishrecipes port=5432 sslmode=disable"
	}

	var err error
	// TranslateError turns driver unique-violations into
	// gorm.ErrDuplicatedKey, which the slug and review paths rely on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}

// Migrate applies the schema. The constraint tags on the models put the
// delete rules into the database itself: recipe/review author FKs are
// ON DELETE SET NULL, the recipe->review FK is ON DELETE CASCADE, and
// (author_id, recipe_id) on reviews is unique.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Review{},
	)
}
