// handlers/submit.go - Submission pipeline: score, progress, persist
package handlers

import (
	"errors"
	"time"

	"chronoline/database"
	"chronoline/middleware"
	"chronoline/models"
	"chronoline/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errDailyCompleted = errors.New("daily puzzle already completed")

type SubmitRequest struct {
	PuzzleID        uint   `json:"puzzle_id"`
	OrderedEventIDs []uint `json:"ordered_event_ids"`
	HintsUsed       int    `json:"hints_used"`
	SolveTimeMs     int    `json:"solve_time_ms"`
}

type achievementInfo struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPReward    int    `json:"xp_reward"`
}

// SubmitAttempt scores a candidate ordering and, for authenticated players,
// records the attempt and applies XP and achievement unlocks in one
// transaction. Guests get the score and correct order back but nothing is
// persisted.
// POST /api/submit
func SubmitAttempt(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.HintsUsed < 0 || req.HintsUsed > services.MaxHints {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid hint count"})
	}
	if req.SolveTimeMs < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid solve time"})
	}

	db := database.GetDB()

	var puzzle models.Puzzle
	if err := db.Preload("Events").First(&puzzle, req.PuzzleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Puzzle not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch puzzle"})
	}

	if err := services.ValidateCandidate(puzzle.Events, req.OrderedEventIDs); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	correct := services.CorrectOrder(puzzle.Events)
	score, won := services.ScoreOrdering(correct, req.OrderedEventIDs)

	wallet := middleware.GetWallet(c)
	if wallet == "" {
		// Guest play is fully functional, just unpersisted and XP-less.
		return c.JSON(fiber.Map{
			"success":          true,
			"won":              won,
			"score":            score,
			"correct_order":    correct,
			"xp_earned":        0,
			"new_achievements": []achievementInfo{},
		})
	}

	player, err := getOrCreatePlayer(db, wallet)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to resolve player"})
	}

	now := time.Now().UTC()
	var result services.ProgressResult

	err = db.Transaction(func(tx *gorm.DB) error {
		// Daily uniqueness gate. The no-op update takes the player's row
		// lock first, serializing concurrent submissions so two of them
		// cannot both see a zero count under read committed.
		if puzzle.IsDaily {
			if err := tx.Exec(
				"UPDATE players SET last_active_at = last_active_at WHERE id = ?",
				player.ID,
			).Error; err != nil {
				return err
			}

			var count int64
			if err := tx.Model(&models.Attempt{}).
				Where("player_id = ? AND puzzle_id = ?", player.ID, puzzle.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errDailyCompleted
			}
		}

		attempt := models.Attempt{
			PlayerID:    player.ID,
			PuzzleID:    puzzle.ID,
			Won:         won,
			Score:       score,
			HintsUsed:   req.HintsUsed,
			SolveTimeMs: req.SolveTimeMs,
			PlayedAt:    now,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		history, err := loadHistory(tx, player.ID)
		if err != nil {
			return err
		}

		unlocked, err := loadUnlockedSlugs(tx, player.ID)
		if err != nil {
			return err
		}

		result = services.EvaluateAttempt(history, unlocked)

		for _, a := range result.NewlyUnlocked {
			row := models.UnlockedAchievement{
				PlayerID:      player.ID,
				AchievementID: a.ID,
				UnlockedAt:    now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"last_active_at": now}
		if result.XPEarned > 0 {
			updates["xp"] = gorm.Expr("xp + ?", result.XPEarned)
		}
		return tx.Model(&models.Player{}).Where("id = ?", player.ID).Updates(updates).Error
	})

	if errors.Is(err, errDailyCompleted) {
		return c.Status(409).JSON(fiber.Map{"error": "Daily puzzle already completed"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record attempt"})
	}

	newAchievements := make([]achievementInfo, 0, len(result.NewlyUnlocked))
	for _, a := range result.NewlyUnlocked {
		newAchievements = append(newAchievements, achievementInfo{
			ID:          a.ID,
			Slug:        a.Slug,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			XPReward:    a.XPReward,
		})
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"won":              won,
		"score":            score,
		"correct_order":    correct,
		"xp_earned":        result.XPEarned,
		"current_streak":   result.CurrentStreak,
		"best_streak":      result.BestStreak,
		"new_achievements": newAchievements,
	})
}

// getOrCreatePlayer resolves the wallet to a player row, creating it on the
// first authenticated submission.
func getOrCreatePlayer(db *gorm.DB, wallet string) (models.Player, error) {
	var player models.Player
	err := db.Where(models.Player{WalletAddress: wallet}).
		Attrs(models.Player{LastActiveAt: time.Now().UTC()}).
		FirstOrCreate(&player).Error
	return player, err
}

// loadHistory returns the player's attempts oldest-to-newest, joined with
// the puzzle's daily flag, in the shape the progression engine consumes.
func loadHistory(tx *gorm.DB, playerID uint) ([]services.PlayedGame, error) {
	var rows []struct {
		Won         bool
		Score       int
		HintsUsed   int
		SolveTimeMs int
		IsDaily     bool
		PlayedAt    time.Time
	}

	err := tx.Table("attempts").
		Select("attempts.won, attempts.score, attempts.hints_used, attempts.solve_time_ms, puzzles.is_daily, attempts.played_at").
		Joins("JOIN puzzles ON puzzles.id = attempts.puzzle_id").
		Where("attempts.player_id = ?", playerID).
		Order("attempts.played_at ASC, attempts.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	history := make([]services.PlayedGame, len(rows))
	for i, r := range rows {
		history[i] = services.PlayedGame{
			Won:         r.Won,
			Score:       r.Score,
			HintsUsed:   r.HintsUsed,
			SolveTimeMs: r.SolveTimeMs,
			IsDaily:     r.IsDaily,
			PlayedAt:    r.PlayedAt,
		}
	}
	return history, nil
}

func loadUnlockedSlugs(tx *gorm.DB, playerID uint) (map[string]bool, error) {
	var unlocked []models.UnlockedAchievement
	if err := tx.Preload("Achievement").Where("player_id = ?", playerID).Find(&unlocked).Error; err != nil {
		return nil, err
	}

	slugs := make(map[string]bool, len(unlocked))
	for _, u := range unlocked {
		slugs[u.Achievement.Slug] = true
	}
	return slugs, nil
}
