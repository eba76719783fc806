// models/puzzle.go
package models

import (
	"time"
)

// Puzzle is a small set of dated events the player must put back into
// chronological order. At most one puzzle may be flagged daily for a given
// calendar date; the admin layer is responsible for keeping that true.
type Puzzle struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Title     string     `json:"title" gorm:"not null;size:200"`
	Category  string     `json:"category" gorm:"size:100;index"`
	IsDaily   bool       `json:"is_daily" gorm:"default:false;index"`
	DailyDate *time.Time `json:"daily_date,omitempty" gorm:"index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Events []PuzzleEvent `json:"events,omitempty" gorm:"foreignKey:PuzzleID"`
}

// PuzzleEvent carries the ground truth for scoring. OrderIndex is the
// zero-based chronological rank within its puzzle; within one puzzle the
// order indexes form a permutation of 0..N-1. SortDate establishes that rank
// server-side and is never serialized to clients.
type PuzzleEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PuzzleID    uint      `json:"puzzle_id" gorm:"not null;index"`
	Text        string    `json:"text" gorm:"not null;type:text"`
	DisplayDate string    `json:"display_date" gorm:"size:100"`
	SortDate    time.Time `json:"-" gorm:"not null"`
	URL         string    `json:"url" gorm:"size:500"`
	OrderIndex  int       `json:"order_index" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Puzzle) TableName() string {
	return "puzzles"
}

func (PuzzleEvent) TableName() string {
	return "puzzle_events"
}
