package handlers

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"chronoline/services"
	"chronoline/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTodayPuzzle_PrefersScheduledDaily(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newTestApp()

	seedPuzzle(t, db, "Archive puzzle", nil)
	today := services.DailyDateKey(time.Now())
	daily, _ := seedPuzzle(t, db, "Today's daily", &today)

	resp, body := doJSON(t, app, "GET", "/api/puzzles/today", nil, "")

	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(daily.ID), body["id"])
	assert.Equal(t, true, body["is_daily"])
	assert.Len(t, body["events"], 5)
}

func TestGetTodayPuzzle_FallsBackToRandom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newTestApp()

	puzzle, _ := seedPuzzle(t, db, "Only puzzle", nil)

	resp, body := doJSON(t, app, "GET", "/api/puzzles/today", nil, "")

	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(puzzle.ID), body["id"])
}

func TestGetTodayPuzzle_EmptyStore(t *testing.T) {
	testutil.SetupTestDB(t)
	app := newTestApp()

	resp, body := doJSON(t, app, "GET", "/api/puzzles/today", nil, "")

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "No puzzles available", body["error"])
}

func TestGetPuzzle_NeverLeaksAnswer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newTestApp()
	puzzle, _ := seedPuzzle(t, db, "Leak check", nil)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/puzzles/%d", puzzle.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "order_index")
	assert.NotContains(t, body, "sort_date")
}

func TestGetPuzzle_NotFound(t *testing.T) {
	testutil.SetupTestDB(t)
	app := newTestApp()

	resp, _ := doJSON(t, app, "GET", "/api/puzzles/999", nil, "")
	assert.Equal(t, 404, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/puzzles/0", nil, "")
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetPuzzles_ListsArchiveWithoutEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newTestApp()
	seedPuzzle(t, db, "First", nil)
	seedPuzzle(t, db, "Second", nil)

	resp, body := doJSON(t, app, "GET", "/api/puzzles", nil, "")

	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	puzzles, ok := body["puzzles"].([]interface{})
	require.True(t, ok)
	first, ok := puzzles[0].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, first, "events")
}
