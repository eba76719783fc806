// models/achievement.go
package models

import "time"

// Achievement is a fixed catalog entry. The catalog lives in code
// (services.AchievementCatalog) and is seeded into this table at migration
// time so the unlock logic and the display layer read the same definitions.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Icon        string    `json:"icon"`
	XPReward    int       `gorm:"default:0" json:"xp_reward"`
	CreatedAt   time.Time `json:"created_at"`
}

// UnlockedAchievement is a one-way (player, achievement) pair: once unlocked,
// never re-awarded or revoked.
type UnlockedAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PlayerID      uint      `gorm:"not null;uniqueIndex:idx_player_achievement" json:"player_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_player_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`

	Player      Player      `gorm:"foreignKey:PlayerID" json:"-"`
	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (UnlockedAchievement) TableName() string {
	return "unlocked_achievements"
}
