// handlers/stats.go - Derived player statistics
package handlers

import (
	"errors"

	"chronoline/database"
	"chronoline/middleware"
	"chronoline/models"
	"chronoline/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetPlayerStats returns the derived view over the player's attempt history.
// Everything except XP is recomputed by scanning attempts so the stats can
// never drift from the history.
// GET /api/stats
func GetPlayerStats(c *fiber.Ctx) error {
	wallet := middleware.GetWallet(c)
	if wallet == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	db := database.GetDB()

	var player models.Player
	err := db.Where("wallet_address = ?", wallet).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Authenticated but never submitted: empty stats, no row created.
		return c.JSON(emptyStats(wallet))
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch player"})
	}

	history, err := loadHistory(db, player.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch history"})
	}

	games := len(history)
	wins := 0
	totalSolveMs := 0
	fastestMs := 0
	for _, g := range history {
		if !g.Won {
			continue
		}
		wins++
		totalSolveMs += g.SolveTimeMs
		if fastestMs == 0 || g.SolveTimeMs < fastestMs {
			fastestMs = g.SolveTimeMs
		}
	}

	winRate := 0.0
	if games > 0 {
		winRate = float64(wins) / float64(games) * 100
	}
	avgSolveMs := 0
	if wins > 0 {
		avgSolveMs = totalSolveMs / wins
	}

	var unlocked []models.UnlockedAchievement
	if err := db.Preload("Achievement").Where("player_id = ?", player.ID).
		Order("unlocked_at DESC").Find(&unlocked).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	achievements := make([]fiber.Map, 0, len(unlocked))
	for _, u := range unlocked {
		achievements = append(achievements, fiber.Map{
			"id":          u.Achievement.ID,
			"slug":        u.Achievement.Slug,
			"title":       u.Achievement.Title,
			"description": u.Achievement.Description,
			"icon":        u.Achievement.Icon,
			"xp_reward":   u.Achievement.XPReward,
			"unlocked_at": u.UnlockedAt,
		})
	}

	var recent []models.Attempt
	if err := db.Preload("Puzzle").Where("player_id = ?", player.ID).
		Order("played_at DESC, id DESC").Limit(10).Find(&recent).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch recent attempts"})
	}

	recentOut := make([]fiber.Map, 0, len(recent))
	for _, a := range recent {
		entry := fiber.Map{
			"puzzle_id":     a.PuzzleID,
			"won":           a.Won,
			"score":         a.Score,
			"hints_used":    a.HintsUsed,
			"solve_time_ms": a.SolveTimeMs,
			"played_at":     a.PlayedAt,
		}
		if a.Puzzle != nil {
			entry["puzzle_title"] = a.Puzzle.Title
		}
		recentOut = append(recentOut, entry)
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"wallet_address":    player.WalletAddress,
		"games_played":      games,
		"wins":              wins,
		"win_rate":          winRate,
		"current_streak":    services.CurrentStreak(history),
		"best_streak":       services.BestStreak(history),
		"avg_solve_ms":      avgSolveMs,
		"fastest_solve_ms":  fastestMs,
		"xp":                player.XP,
		"level":             services.Level(player.XP),
		"achievements":      achievements,
		"recent_attempts":   recentOut,
	})
}

func emptyStats(wallet string) fiber.Map {
	return fiber.Map{
		"success":          true,
		"wallet_address":   wallet,
		"games_played":     0,
		"wins":             0,
		"win_rate":         0.0,
		"current_streak":   0,
		"best_streak":      0,
		"avg_solve_ms":     0,
		"fastest_solve_ms": 0,
		"xp":               0,
		"level":            0,
		"achievements":     []fiber.Map{},
		"recent_attempts":  []fiber.Map{},
	}
}
