// models/attempt.go
package models

import (
	"time"
)

// Attempt records one puzzle submission. Created exactly once, never mutated.
// For daily puzzles at most one attempt may exist per (player, puzzle); the
// submission pipeline enforces that inside its transaction.
type Attempt struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PlayerID    uint      `json:"player_id" gorm:"not null;index"`
	Player      *Player   `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	PuzzleID    uint      `json:"puzzle_id" gorm:"not null;index"`
	Puzzle      *Puzzle   `json:"puzzle,omitempty" gorm:"foreignKey:PuzzleID"`
	Won         bool      `json:"won" gorm:"default:false"`
	Score       int       `json:"score" gorm:"default:0"`
	HintsUsed   int       `json:"hints_used" gorm:"default:0"`
	SolveTimeMs int       `json:"solve_time_ms" gorm:"default:0"`
	PlayedAt    time.Time `json:"played_at" gorm:"index"`
}

func (Attempt) TableName() string {
	return "attempts"
}
