// handlers/leaderboard.go
package handlers

import (
	"chronoline/database"
	"chronoline/models"
	"chronoline/services"
	"chronoline/utils"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns the global leaderboard ordered by XP.
// GET /api/leaderboard?limit=100&offset=0
func GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	db := database.GetDB()

	var players []models.Player
	if err := db.Order("xp DESC, created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	var total int64
	db.Model(&models.Player{}).Count(&total)

	entries := make([]fiber.Map, 0, len(players))
	for i, p := range players {
		entries = append(entries, fiber.Map{
			"rank":           offset + i + 1,
			"wallet_address": p.WalletAddress,
			"xp":             p.XP,
			"level":          services.Level(p.XP),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetPlayerRank returns a single player's XP rank.
// GET /api/leaderboard/rank/:address
func GetPlayerRank(c *fiber.Ctx) error {
	address := utils.NormalizeAddress(c.Params("address"))
	if !utils.IsValidAddress(address) {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid wallet address"})
	}

	db := database.GetDB()

	var player models.Player
	if err := db.Where("wallet_address = ?", address).First(&player).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Player not found"})
	}

	var rank int64
	db.Raw(
		"SELECT COUNT(*) + 1 FROM players WHERE xp > ? OR (xp = ? AND created_at < ?)",
		player.XP, player.XP, player.CreatedAt,
	).Scan(&rank)

	return c.JSON(fiber.Map{
		"success":        true,
		"wallet_address": player.WalletAddress,
		"xp":             player.XP,
		"level":          services.Level(player.XP),
		"rank":           rank,
	})
}
