package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wins(n int) []PlayedGame {
	games := make([]PlayedGame, n)
	for i := range games {
		games[i] = PlayedGame{Won: true, Score: 5, HintsUsed: 1, SolveTimeMs: 60000, PlayedAt: time.Now()}
	}
	return games
}

func newlySlugs(r ProgressResult) []string {
	out := make([]string, 0, len(r.NewlyUnlocked))
	for _, a := range r.NewlyUnlocked {
		out = append(out, a.Slug)
	}
	return out
}

func TestCurrentStreak_ResetOnLoss(t *testing.T) {
	history := []PlayedGame{
		{Won: true}, {Won: true}, {Won: false}, {Won: true}, {Won: true}, {Won: true},
	}
	assert.Equal(t, 3, CurrentStreak(history))

	history = append(history, PlayedGame{Won: false})
	assert.Equal(t, 0, CurrentStreak(history))

	assert.Equal(t, 0, CurrentStreak(nil))
}

func TestBestStreak_SurvivesLaterLosses(t *testing.T) {
	history := []PlayedGame{
		{Won: true}, {Won: true}, {Won: true}, {Won: true},
		{Won: false},
		{Won: true},
	}
	assert.Equal(t, 4, BestStreak(history))

	// A streak-breaking loss never lowers the recorded best.
	history = append(history, PlayedGame{Won: false}, PlayedGame{Won: false})
	assert.Equal(t, 4, BestStreak(history))
}

func TestCalculateXP_LossIsAlwaysZero(t *testing.T) {
	game := PlayedGame{Won: false, HintsUsed: 0, SolveTimeMs: 1000, IsDaily: true}
	unlocked := AchievementCatalog()
	assert.Equal(t, 0, CalculateXP(game, 10, unlocked))
}

func TestCalculateXP_BonusesAreAdditive(t *testing.T) {
	game := PlayedGame{Won: true, HintsUsed: 0, SolveTimeMs: 10000, IsDaily: true}
	// 100 base + 50 perfect + 30 speed + 20*3 streak + 75 daily
	assert.Equal(t, 315, CalculateXP(game, 3, nil))

	// streak of 1 earns no streak bonus
	game = PlayedGame{Won: true, HintsUsed: 2, SolveTimeMs: 45000}
	assert.Equal(t, 100, CalculateXP(game, 1, nil))
}

func TestEvaluateAttempt_FirstWinBaseline(t *testing.T) {
	// First-ever win, no hints, 10s, not daily, with the single-attempt
	// unlocks already held: only first_win fires and the award is
	// 100 + 50 + 30 + 50.
	history := []PlayedGame{{Won: true, Score: 5, HintsUsed: 0, SolveTimeMs: 10000, PlayedAt: time.Now()}}
	already := map[string]bool{AchNoHints: true, AchSpeedDemon: true}

	result := EvaluateAttempt(history, already)

	assert.Equal(t, 230, result.XPEarned)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, []string{AchFirstWin}, newlySlugs(result))
}

func TestEvaluateAttempt_FreshFirstWinUnlocksAllSatisfied(t *testing.T) {
	history := []PlayedGame{{Won: true, Score: 5, HintsUsed: 0, SolveTimeMs: 10000, PlayedAt: time.Now()}}

	result := EvaluateAttempt(history, map[string]bool{})

	// first_win(50) + no_hints(50) + speed_demon(100) on top of 100+50+30.
	assert.Equal(t, 380, result.XPEarned)
	assert.ElementsMatch(t, []string{AchFirstWin, AchNoHints, AchSpeedDemon}, newlySlugs(result))
}

func TestEvaluateAttempt_SeventhWinUnlocksStreak7Once(t *testing.T) {
	history := wins(7)
	already := map[string]bool{AchFirstWin: true, AchStreak3: true}

	result := EvaluateAttempt(history, already)

	require.Equal(t, 7, result.CurrentStreak)
	assert.Contains(t, newlySlugs(result), AchStreak7)
	assert.NotContains(t, newlySlugs(result), AchStreak3)

	// Re-running with streak_7 recorded unlocks nothing new.
	already[AchStreak7] = true
	again := EvaluateAttempt(history, already)
	assert.NotContains(t, newlySlugs(again), AchStreak7)
}

func TestEvaluateAttempt_UnlocksAreIdempotent(t *testing.T) {
	history := wins(3)

	first := EvaluateAttempt(history, map[string]bool{})
	require.NotEmpty(t, first.NewlyUnlocked)

	already := map[string]bool{}
	for _, a := range first.NewlyUnlocked {
		already[a.Slug] = true
	}

	second := EvaluateAttempt(history, already)
	assert.Empty(t, second.NewlyUnlocked)
}

func TestEvaluateAttempt_LossEarnsNothingEvenWithUnlock(t *testing.T) {
	// games_50 can be satisfied by a losing attempt; the unlock happens but
	// the attempt itself still earns zero XP.
	history := wins(49)
	history = append(history, PlayedGame{Won: false, PlayedAt: time.Now()})

	already := map[string]bool{
		AchFirstWin: true, AchStreak3: true, AchStreak7: true,
		AchStreak15: true, AchNoHints: true, AchSpeedDemon: true,
	}
	result := EvaluateAttempt(history, already)

	assert.Equal(t, 0, result.XPEarned)
	assert.Equal(t, 0, result.CurrentStreak)
	assert.Equal(t, 49, result.BestStreak)
	assert.Contains(t, newlySlugs(result), AchGames50)
}

func TestEvaluateAttempt_DailyWinsCount(t *testing.T) {
	history := make([]PlayedGame, 0, 5)
	for i := 0; i < 5; i++ {
		history = append(history, PlayedGame{Won: true, HintsUsed: 1, SolveTimeMs: 60000, IsDaily: true, PlayedAt: time.Now()})
	}

	already := map[string]bool{AchFirstWin: true, AchStreak3: true}
	result := EvaluateAttempt(history, already)

	assert.Contains(t, newlySlugs(result), AchDaily5)
	assert.NotContains(t, newlySlugs(result), AchDaily30)
}

func TestEvaluateAttempt_EmptyHistory(t *testing.T) {
	result := EvaluateAttempt(nil, nil)
	assert.Equal(t, 0, result.XPEarned)
	assert.Empty(t, result.NewlyUnlocked)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 0, Level(0))
	assert.Equal(t, 0, Level(499))
	assert.Equal(t, 1, Level(500))
	assert.Equal(t, 4, Level(2300))
	assert.Equal(t, 0, Level(-10))
}
