// services/progression.go - Streaks, XP and achievement unlocking
//
// Everything here is a pure function of the player's attempt history plus the
// already-unlocked achievement set, so it can be exercised without a database.
// Attempt history is the single source of truth: streaks and lifetime counts
// are recomputed from scratch on every submission, never kept as counters.
package services

import (
	"chronoline/models"
	"time"
)

// XP and gameplay constants.
const (
	BaseWinXP             = 100
	PerfectBonusXP        = 50
	SpeedBonusXP          = 30
	SpeedBonusThresholdMs = 30000
	StreakMultiplierXP    = 20
	DailyBonusXP          = 75
	SpeedDemonThresholdMs = 15000
	XPPerLevel            = 500
	MaxHints              = 3
)

// PlayedGame is one attempt as the progression engine sees it, joined with
// the puzzle's daily flag.
type PlayedGame struct {
	Won         bool
	Score       int
	HintsUsed   int
	SolveTimeMs int
	IsDaily     bool
	PlayedAt    time.Time
}

// ProgressResult is the outcome of evaluating one new attempt.
type ProgressResult struct {
	XPEarned      int
	CurrentStreak int
	BestStreak    int
	NewlyUnlocked []models.Achievement
}

// EvaluateAttempt derives streaks, newly satisfied achievements and the XP
// delta for the attempt at the end of history. History must be ordered
// oldest-to-newest and include the new attempt as its last element.
func EvaluateAttempt(history []PlayedGame, alreadyUnlocked map[string]bool) ProgressResult {
	if len(history) == 0 {
		return ProgressResult{NewlyUnlocked: []models.Achievement{}}
	}

	latest := history[len(history)-1]
	current := CurrentStreak(history)
	best := BestStreak(history)
	newly := evaluateUnlocks(history, latest, current, alreadyUnlocked)

	xp := 0
	if latest.Won {
		xp = CalculateXP(latest, current, newly)
	}

	return ProgressResult{
		XPEarned:      xp,
		CurrentStreak: current,
		BestStreak:    best,
		NewlyUnlocked: newly,
	}
}

// CurrentStreak counts consecutive wins walking back from the most recent
// attempt. Any loss resets it to zero.
func CurrentStreak(history []PlayedGame) int {
	streak := 0
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].Won {
			break
		}
		streak++
	}
	return streak
}

// BestStreak is the maximum run of consecutive wins anywhere in history.
// Recomputed over the full history every time so replayed or migrated
// attempts cannot leave a stale maximum behind.
func BestStreak(history []PlayedGame) int {
	best, run := 0, 0
	for _, g := range history {
		if g.Won {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// CalculateXP computes the XP award for a single winning attempt.
// streakAfter is the current streak including this win. A losing attempt
// always earns zero, even when it happens to unlock an achievement.
func CalculateXP(game PlayedGame, streakAfter int, unlocked []models.Achievement) int {
	if !game.Won {
		return 0
	}

	xp := BaseWinXP
	if game.HintsUsed == 0 {
		xp += PerfectBonusXP
	}
	if game.SolveTimeMs < SpeedBonusThresholdMs {
		xp += SpeedBonusXP
	}
	if streakAfter > 1 {
		xp += StreakMultiplierXP * streakAfter
	}
	if game.IsDaily {
		xp += DailyBonusXP
	}
	for _, a := range unlocked {
		xp += a.XPReward
	}
	return xp
}

// Level is floor(xp / XPPerLevel).
func Level(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp / XPPerLevel
}

// evaluateUnlocks runs every catalog predicate against the full history.
// Checks are independent and order-free; anything already unlocked is
// skipped, which makes unlocking idempotent.
func evaluateUnlocks(history []PlayedGame, latest PlayedGame, currentStreak int, alreadyUnlocked map[string]bool) []models.Achievement {
	wins, dailyWins, perfectWins := 0, 0, 0
	for _, g := range history {
		if !g.Won {
			continue
		}
		wins++
		if g.IsDaily {
			dailyWins++
		}
		if g.HintsUsed == 0 {
			perfectWins++
		}
	}

	newly := []models.Achievement{}
	for _, a := range achievementCatalog {
		if alreadyUnlocked[a.Slug] {
			continue
		}

		satisfied := false
		switch a.Slug {
		case AchFirstWin:
			satisfied = latest.Won && wins >= 1
		case AchStreak3:
			satisfied = currentStreak >= 3
		case AchStreak7:
			satisfied = currentStreak >= 7
		case AchStreak15:
			satisfied = currentStreak >= 15
		case AchNoHints:
			satisfied = latest.Won && latest.HintsUsed == 0
		case AchSpeedDemon:
			satisfied = latest.Won && latest.SolveTimeMs < SpeedDemonThresholdMs
		case AchDaily5:
			satisfied = dailyWins >= 5
		case AchDaily30:
			satisfied = dailyWins >= 30
		case AchGames50:
			satisfied = len(history) >= 50
		case AchPerfect10:
			satisfied = perfectWins >= 10
		}

		if satisfied {
			newly = append(newly, a)
		}
	}
	return newly
}
