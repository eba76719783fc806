// services/scoring.go - Answer validation for ordering submissions
package services

import (
	"fmt"
	"sort"

	"chronoline/models"
)

// CorrectOrder returns the puzzle's event ids sorted by chronological rank.
func CorrectOrder(events []models.PuzzleEvent) []uint {
	sorted := make([]models.PuzzleEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	ids := make([]uint, len(sorted))
	for i, e := range sorted {
		ids[i] = e.ID
	}
	return ids
}

// ValidateCandidate checks that the candidate ordering is a permutation of
// the puzzle's event ids: right length, no duplicates, no unknown ids.
func ValidateCandidate(events []models.PuzzleEvent, candidate []uint) error {
	if len(candidate) != len(events) {
		return fmt.Errorf("expected %d event ids, got %d", len(events), len(candidate))
	}

	known := make(map[uint]bool, len(events))
	for _, e := range events {
		known[e.ID] = true
	}

	seen := make(map[uint]bool, len(candidate))
	for _, id := range candidate {
		if !known[id] {
			return fmt.Errorf("unknown event id %d", id)
		}
		if seen[id] {
			return fmt.Errorf("duplicate event id %d", id)
		}
		seen[id] = true
	}
	return nil
}

// ScoreOrdering counts positionally correct entries. Positional equality
// only: an event one slot off its exact rank scores zero for that position.
// A win requires every position correct.
func ScoreOrdering(correct, candidate []uint) (score int, won bool) {
	for i := range correct {
		if i < len(candidate) && candidate[i] == correct[i] {
			score++
		}
	}
	return score, score == len(correct) && len(correct) > 0
}
