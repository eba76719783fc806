// handlers/puzzles.go - Answer-hiding puzzle delivery
package handlers

import (
	"errors"
	"time"

	"chronoline/database"
	"chronoline/models"
	"chronoline/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetTodayPuzzle serves the puzzle scheduled for today's date, falling back
// to a random puzzle when no daily is scheduled.
// GET /api/puzzles/today
func GetTodayPuzzle(c *fiber.Ctx) error {
	db := database.GetDB()
	today := services.DailyDateKey(time.Now())

	var puzzle models.Puzzle
	err := db.Preload("Events").
		Where("is_daily = ? AND daily_date = ?", true, today).
		First(&puzzle).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Preload("Events").Order("RANDOM()").First(&puzzle).Error
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "No puzzles available"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch puzzle"})
	}

	return c.JSON(puzzleResponse(puzzle))
}

// GetPuzzle serves an explicit puzzle in the same shuffled, answer-free shape.
// GET /api/puzzles/:id
func GetPuzzle(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid puzzle id"})
	}

	db := database.GetDB()
	var puzzle models.Puzzle
	if err := db.Preload("Events").First(&puzzle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Puzzle not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch puzzle"})
	}

	return c.JSON(puzzleResponse(puzzle))
}

// GetPuzzles lists the archive without events.
// GET /api/puzzles
func GetPuzzles(c *fiber.Ctx) error {
	db := database.GetDB()

	var puzzles []models.Puzzle
	if err := db.Order("id ASC").Find(&puzzles).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch puzzles"})
	}

	list := make([]fiber.Map, 0, len(puzzles))
	for _, p := range puzzles {
		list = append(list, fiber.Map{
			"id":       p.ID,
			"title":    p.Title,
			"category": p.Category,
			"is_daily": p.IsDaily,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"puzzles": list,
		"count":   len(list),
	})
}

// puzzleResponse builds the client payload. Events go out in a uniformly
// random order carrying only id, text, display date and url - never the
// order index or sortable date.
func puzzleResponse(puzzle models.Puzzle) fiber.Map {
	return fiber.Map{
		"success":  true,
		"id":       puzzle.ID,
		"title":    puzzle.Title,
		"category": puzzle.Category,
		"is_daily": puzzle.IsDaily,
		"events":   services.ShuffledEvents(puzzle.Events),
	}
}
