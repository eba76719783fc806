package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chronoline/middleware"
	"chronoline/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWallet = "0x1111111111111111111111111111111111111111"

func newTestApp() *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	api.Get("/puzzles", GetPuzzles)
	api.Get("/puzzles/today", GetTodayPuzzle)
	api.Get("/puzzles/:id", GetPuzzle)
	api.Post("/submit", middleware.OptionalAuthMiddleware, SubmitAttempt)
	api.Post("/migrate", middleware.AuthMiddleware, MigrateGuestResults)
	api.Get("/stats", middleware.AuthMiddleware, GetPlayerStats)
	api.Get("/leaderboard", GetLeaderboard)
	api.Get("/leaderboard/rank/:address", GetPlayerRank)
	return app
}

// seedPuzzle inserts a five-event puzzle and returns it with the event ids
// in chronological order.
func seedPuzzle(t *testing.T, db *gorm.DB, title string, dailyDate *time.Time) (models.Puzzle, []uint) {
	t.Helper()

	puzzle := models.Puzzle{
		Title:     title,
		Category:  "history",
		IsDaily:   dailyDate != nil,
		DailyDate: dailyDate,
	}
	require.NoError(t, db.Create(&puzzle).Error)

	correct := make([]uint, 0, 5)
	base := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		event := models.PuzzleEvent{
			PuzzleID:    puzzle.ID,
			Text:        fmt.Sprintf("%s event %d", title, i),
			DisplayDate: fmt.Sprintf("19%02d", i*10),
			SortDate:    base.AddDate(i*10, 0, 0),
			OrderIndex:  i,
		}
		require.NoError(t, db.Create(&event).Error)
		correct = append(correct, event.ID)
	}
	return puzzle, correct
}

func testToken(t *testing.T, wallet string) string {
	t.Helper()
	token, _, err := generateToken(wallet)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}
