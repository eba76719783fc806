package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"chronoline/database"
	"chronoline/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type JSONEvent struct {
	Text        string `json:"text"`
	DisplayDate string `json:"display_date"`
	SortDate    string `json:"sort_date"`
	URL         string `json:"url"`
}

type JSONPuzzle struct {
	Title     string      `json:"title"`
	Category  string      `json:"category"`
	IsDaily   bool        `json:"is_daily"`
	DailyDate string      `json:"daily_date"`
	Events    []JSONEvent `json:"events"`
}

func main() {
	path := flag.String("file", "./data/puzzles.json", "path to the puzzles JSON file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read JSON file:", err)
	}

	var puzzles []JSONPuzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		log.Fatal("Failed to parse JSON:", err)
	}

	fmt.Printf("Found %d puzzles\n\n", len(puzzles))

	imported := 0
	skipped := 0

	for _, p := range puzzles {
		if p.Title == "" || len(p.Events) < 2 {
			log.Printf("Skipping invalid puzzle %q: needs a title and at least 2 events", p.Title)
			skipped++
			continue
		}

		var count int64
		db.Model(&models.Puzzle{}).Where("title = ?", p.Title).Count(&count)
		if count > 0 {
			fmt.Printf("Skipping existing: %s\n", p.Title)
			skipped++
			continue
		}

		puzzle, events, err := buildRows(p)
		if err != nil {
			log.Printf("Skipping %q: %v", p.Title, err)
			skipped++
			continue
		}

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
			log.Printf("Error importing %q: %v", p.Title, err)
			skipped++
			continue
		}

		fmt.Printf("Imported: %s (%d events)\n", p.Title, len(events))
		imported++
	}

	fmt.Printf("\n✓ Import finished: %d imported, %d skipped\n", imported, skipped)
}

// buildRows converts a JSON puzzle into model rows. The chronological order
// is derived here by sorting events on their sort date, so the source file
// can list events in any order.
func buildRows(p JSONPuzzle) (models.Puzzle, []models.PuzzleEvent, error) {
	type dated struct {
		event JSONEvent
		date  time.Time
	}

	parsed := make([]dated, 0, len(p.Events))
	for _, e := range p.Events {
		if e.Text == "" {
			return models.Puzzle{}, nil, fmt.Errorf("event with empty text")
		}
		date, err := time.Parse("2006-01-02", e.SortDate)
		if err != nil {
			return models.Puzzle{}, nil, fmt.Errorf("invalid sort_date %q", e.SortDate)
		}
		parsed = append(parsed, dated{event: e, date: date.UTC()})
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].date.Before(parsed[j].date)
	})

	puzzle := models.Puzzle{
		Title:    p.Title,
		Category: p.Category,
		IsDaily:  p.IsDaily,
	}

	if p.IsDaily {
		if p.DailyDate == "" {
			return models.Puzzle{}, nil, fmt.Errorf("daily puzzle without daily_date")
		}
		date, err := time.Parse("2006-01-02", p.DailyDate)
		if err != nil {
			return models.Puzzle{}, nil, fmt.Errorf("invalid daily_date %q", p.DailyDate)
		}
		date = date.UTC()
		puzzle.DailyDate = &date
	}

	events := make([]models.PuzzleEvent, len(parsed))
	for i, d := range parsed {
		events[i] = models.PuzzleEvent{
			Text:        d.event.Text,
			DisplayDate: d.event.DisplayDate,
			SortDate:    d.date,
			URL:         d.event.URL,
			OrderIndex:  i,
		}
	}

	return puzzle, events, nil
}
