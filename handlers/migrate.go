// handlers/migrate.go - Guest-to-player history transfer
package handlers

import (
	"log"
	"time"

	"chronoline/database"
	"chronoline/middleware"
	"chronoline/models"
	"chronoline/services"

	"github.com/gofiber/fiber/v2"
)

type GuestResult struct {
	PuzzleID    uint      `json:"puzzle_id"`
	Won         bool      `json:"won"`
	Score       int       `json:"score"`
	HintsUsed   int       `json:"hints_used"`
	SolveTimeMs int       `json:"solve_time_ms"`
	PlayedAt    time.Time `json:"played_at"`
}

type MigrateRequest struct {
	Results []GuestResult `json:"results"`
}

// MigrateGuestResults transfers a batch of locally-held guest attempts to
// the authenticated player. Best-effort, per-record: results for puzzles
// that no longer exist or with out-of-range fields are dropped silently,
// and an insert failure skips just that record. Migrated attempts are
// historical facts only - no XP or achievement evaluation runs over them.
// POST /api/migrate
func MigrateGuestResults(c *fiber.Ctx) error {
	wallet := middleware.GetWallet(c)
	if wallet == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	var req MigrateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()
	player, err := getOrCreatePlayer(db, wallet)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to resolve player"})
	}

	if len(req.Results) == 0 {
		return c.JSON(fiber.Map{"success": true, "migrated": 0})
	}

	ids := make([]uint, 0, len(req.Results))
	for _, r := range req.Results {
		ids = append(ids, r.PuzzleID)
	}

	var counts []struct {
		PuzzleID uint
		N        int
	}
	if err := db.Model(&models.PuzzleEvent{}).
		Select("puzzle_id, COUNT(*) AS n").
		Where("puzzle_id IN ?", ids).
		Group("puzzle_id").
		Scan(&counts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to verify puzzles"})
	}
	eventCount := make(map[uint]int, len(counts))
	for _, pc := range counts {
		eventCount[pc.PuzzleID] = pc.N
	}

	migrated := 0
	for _, r := range req.Results {
		n, known := eventCount[r.PuzzleID]
		if !known {
			continue
		}
		// Same bounds the live submission path enforces; out-of-range
		// records are dropped like unknown puzzle ids.
		if r.HintsUsed < 0 || r.HintsUsed > services.MaxHints ||
			r.SolveTimeMs < 0 || r.Score < 0 || r.Score > n {
			continue
		}

		playedAt := r.PlayedAt
		if playedAt.IsZero() {
			playedAt = time.Now().UTC()
		}

		attempt := models.Attempt{
			PlayerID:    player.ID,
			PuzzleID:    r.PuzzleID,
			Won:         r.Won,
			Score:       r.Score,
			HintsUsed:   r.HintsUsed,
			SolveTimeMs: r.SolveTimeMs,
			PlayedAt:    playedAt,
		}
		if err := db.Create(&attempt).Error; err != nil {
			log.Printf("migrate: skipping result for puzzle %d: %v", r.PuzzleID, err)
			continue
		}
		migrated++
	}

	db.Model(&models.Player{}).Where("id = ?", player.ID).Update("last_active_at", time.Now().UTC())

	return c.JSON(fiber.Map{
		"success":  true,
		"migrated": migrated,
	})
}
