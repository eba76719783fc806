package admin

import (
	"errors"
	"fmt"
	"time"

	"chronoline/database"
	"chronoline/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EventInput struct {
	Text        string `json:"text"`
	DisplayDate string `json:"display_date"`
	SortDate    string `json:"sort_date"`
	URL         string `json:"url"`
	OrderIndex  int    `json:"order_index"`
}

type PuzzleInput struct {
	Title     string       `json:"title"`
	Category  string       `json:"category"`
	IsDaily   bool         `json:"is_daily"`
	DailyDate string       `json:"daily_date"`
	Events    []EventInput `json:"events"`
}

// CreatePuzzle inserts a puzzle with its events in one transaction.
// POST /api/admin/puzzles
func CreatePuzzle(c *fiber.Ctx) error {
	var input PuzzleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	puzzle, events, err := buildPuzzle(input)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&puzzle).Error; err != nil {
			return err
		}
		for i := range events {
			events[i].PuzzleID = puzzle.ID
		}
		return tx.Create(&events).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create puzzle"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"id":      puzzle.ID,
	})
}

// UpdatePuzzle replaces a puzzle's fields and its full event set.
// PUT /api/admin/puzzles/:id
func UpdatePuzzle(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid puzzle id"})
	}

	var input PuzzleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	puzzle, events, err := buildPuzzle(input)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var existing models.Puzzle
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Puzzle not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch puzzle"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":      puzzle.Title,
			"category":   puzzle.Category,
			"is_daily":   puzzle.IsDaily,
			"daily_date": puzzle.DailyDate,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("puzzle_id = ?", existing.ID).Delete(&models.PuzzleEvent{}).Error; err != nil {
			return err
		}
		for i := range events {
			events[i].PuzzleID = existing.ID
		}
		return tx.Create(&events).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update puzzle"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"id":      existing.ID,
	})
}

// DeletePuzzle removes a puzzle and its events. Attempts referencing it are
// kept as historical records.
// DELETE /api/admin/puzzles/:id
func DeletePuzzle(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid puzzle id"})
	}

	db := database.GetDB()

	var puzzle models.Puzzle
	if err := db.First(&puzzle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Puzzle not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch puzzle"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("puzzle_id = ?", puzzle.ID).Delete(&models.PuzzleEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&puzzle).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete puzzle"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListPuzzles returns the full puzzle set with events and answers, for the
// admin surface only.
// GET /api/admin/puzzles
func ListPuzzles(c *fiber.Ctx) error {
	db := database.GetDB()

	var puzzles []models.Puzzle
	if err := db.Preload("Events", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index ASC")
	}).Order("id ASC").Find(&puzzles).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch puzzles"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"puzzles": puzzles,
		"count":   len(puzzles),
	})
}

// buildPuzzle validates the input and converts it to model rows. Order
// indexes must form a permutation of 0..n-1 over at least two events.
func buildPuzzle(input PuzzleInput) (models.Puzzle, []models.PuzzleEvent, error) {
	if input.Title == "" {
		return models.Puzzle{}, nil, errors.New("title is required")
	}
	if len(input.Events) < 2 {
		return models.Puzzle{}, nil, errors.New("a puzzle needs at least 2 events")
	}

	seen := make(map[int]bool, len(input.Events))
	for _, e := range input.Events {
		if e.Text == "" {
			return models.Puzzle{}, nil, errors.New("every event needs text")
		}
		if e.OrderIndex < 0 || e.OrderIndex >= len(input.Events) {
			return models.Puzzle{}, nil, fmt.Errorf("order_index %d out of range", e.OrderIndex)
		}
		if seen[e.OrderIndex] {
			return models.Puzzle{}, nil, fmt.Errorf("duplicate order_index %d", e.OrderIndex)
		}
		seen[e.OrderIndex] = true
	}

	puzzle := models.Puzzle{
		Title:    input.Title,
		Category: input.Category,
		IsDaily:  input.IsDaily,
	}

	if input.IsDaily {
		if input.DailyDate == "" {
			return models.Puzzle{}, nil, errors.New("daily puzzles need a daily_date")
		}
		date, err := time.Parse("2006-01-02", input.DailyDate)
		if err != nil {
			return models.Puzzle{}, nil, errors.New("daily_date must be YYYY-MM-DD")
		}
		date = date.UTC()
		puzzle.DailyDate = &date
	}

	events := make([]models.PuzzleEvent, len(input.Events))
	for i, e := range input.Events {
		sortDate := time.Time{}
		if e.SortDate != "" {
			parsed, err := time.Parse("2006-01-02", e.SortDate)
			if err != nil {
				return models.Puzzle{}, nil, fmt.Errorf("invalid sort_date %q", e.SortDate)
			}
			sortDate = parsed.UTC()
		}
		events[i] = models.PuzzleEvent{
			Text:        e.Text,
			DisplayDate: e.DisplayDate,
			SortDate:    sortDate,
			URL:         e.URL,
			OrderIndex:  e.OrderIndex,
		}
	}

	return puzzle, events, nil
}
