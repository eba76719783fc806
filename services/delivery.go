// services/delivery.go - Answer-hiding puzzle delivery
package services

import (
	"math/rand"
	"time"

	"chronoline/models"
)

// PuzzleEventView is the client-facing shape of an event. It deliberately
// carries no order index and no sortable date: nothing in the payload may
// reveal the correct chronology before submission.
type PuzzleEventView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
	Date string `json:"date"`
	URL  string `json:"url,omitempty"`
}

// ShuffledEvents returns the puzzle's events in a uniformly random
// permutation (Fisher-Yates via rand.Shuffle).
func ShuffledEvents(events []models.PuzzleEvent) []PuzzleEventView {
	views := make([]PuzzleEventView, 0, len(events))
	for _, e := range events {
		views = append(views, PuzzleEventView{
			ID:   e.ID,
			Text: e.Text,
			Date: e.DisplayDate,
			URL:  e.URL,
		})
	}

	rand.Shuffle(len(views), func(i, j int) {
		views[i], views[j] = views[j], views[i]
	})
	return views
}

// DailyDateKey truncates t to its UTC calendar date. Both the delivery query
// and the admin layer canonicalize daily dates through this so equality
// comparisons work across database backends.
func DailyDateKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
