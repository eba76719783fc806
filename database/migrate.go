// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"chronoline/models"
	"chronoline/services"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.Player{},
		&models.Puzzle{},
		&models.PuzzleEvent{},
		&models.Attempt{},
		&models.Achievement{},
		&models.UnlockedAchievement{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	if err := SeedAchievements(); err != nil {
		log.Fatalf("❌ Failed to seed achievements: %v", err)
	}

	createCoreIndexes()

	log.Println("✅ All migrations completed successfully")
}

// SeedAchievements loads the static achievement catalog into the database.
// Existing rows are left alone so unlock references stay stable.
func SeedAchievements() error {
	db := GetDB()

	for _, def := range services.AchievementCatalog() {
		var existing models.Achievement
		if err := db.Where("slug = ?", def.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&def).Error; err != nil {
			return err
		}
	}
	return nil
}

// createCoreIndexes creates indexes for core tables
func createCoreIndexes() {
	db := GetDB()
	log.Println("Creating core indexes...")

	// Puzzle indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_puzzles_daily ON puzzles(is_daily, daily_date)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_puzzle_events_puzzle ON puzzle_events(puzzle_id)")

	// Attempt indexes. The composite index backs the daily-uniqueness check
	// inside the submission transaction.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_attempts_player ON attempts(player_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_attempts_player_puzzle ON attempts(player_id, puzzle_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_attempts_played ON attempts(played_at DESC)")

	// Player indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_players_xp ON players(xp DESC)")

	// Achievement indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_unlocked_player ON unlocked_achievements(player_id)")

	log.Println("✅ Core indexes created successfully")
}
