// services/catalog.go
package services

import (
	"chronoline/models"
)

// Achievement slugs. The unlock predicates in progression.go are keyed by
// these; the definitions below are seeded into the achievements table so the
// checker and the display layer never diverge.
const (
	AchFirstWin   = "first_win"
	AchStreak3    = "streak_3"
	AchStreak7    = "streak_7"
	AchStreak15   = "streak_15"
	AchNoHints    = "no_hints"
	AchSpeedDemon = "speed_demon"
	AchDaily5     = "daily_5"
	AchDaily30    = "daily_30"
	AchGames50    = "games_50"
	AchPerfect10  = "perfect_10"
)

var achievementCatalog = []models.Achievement{
	{ID: 1, Slug: AchFirstWin, Title: "First Victory", Description: "Win your first puzzle", Icon: "🏆", XPReward: 50},
	{ID: 2, Slug: AchStreak3, Title: "Hot Streak", Description: "Win 3 puzzles in a row", Icon: "🔥", XPReward: 75},
	{ID: 3, Slug: AchStreak7, Title: "On Fire", Description: "Win 7 puzzles in a row", Icon: "☄️", XPReward: 150},
	{ID: 4, Slug: AchStreak15, Title: "Unstoppable", Description: "Win 15 puzzles in a row", Icon: "⚡", XPReward: 300},
	{ID: 5, Slug: AchNoHints, Title: "No Help Needed", Description: "Win a puzzle without using hints", Icon: "🧠", XPReward: 50},
	{ID: 6, Slug: AchSpeedDemon, Title: "Speed Demon", Description: "Win a puzzle in under 15 seconds", Icon: "⏱️", XPReward: 100},
	{ID: 7, Slug: AchDaily5, Title: "Daily Regular", Description: "Win 5 daily puzzles", Icon: "📅", XPReward: 100},
	{ID: 8, Slug: AchDaily30, Title: "Daily Devotee", Description: "Win 30 daily puzzles", Icon: "🗓️", XPReward: 500},
	{ID: 9, Slug: AchGames50, Title: "Dedicated", Description: "Play 50 puzzles", Icon: "🎮", XPReward: 200},
	{ID: 10, Slug: AchPerfect10, Title: "Perfectionist", Description: "Win 10 puzzles without hints", Icon: "💯", XPReward: 250},
}

// AchievementCatalog returns the static achievement definitions. The slice is
// copied so callers cannot mutate the catalog.
func AchievementCatalog() []models.Achievement {
	out := make([]models.Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}
