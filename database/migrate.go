// database/migrate.go - Database Migration Runner
package database

import (
	"fmt"
	"log"

	"litdisplay/models"
)

// RunMigrations runs all database migrations.
func RunMigrations() error {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.LiturgicalDay{},
		&models.CachedChapter{},
		&models.Reflection{},
		&models.WikiSummary{},
		&models.AdminUser{},
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	createIndexes()

	log.Println("✅ Migrations completed")
	return nil
}

func createIndexes() {
	db := GetDB()

	db.Exec("CREATE INDEX IF NOT EXISTS idx_liturgical_days_date ON liturgical_days(date)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_chapter_cache_fetched ON chapter_cache(fetched_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_wiki_summaries_fetched ON wiki_summaries(fetched_at)")
}
