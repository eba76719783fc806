// models/player.go
package models

import (
	"time"
)

// Player is created lazily on a wallet's first authenticated submission.
// XP is the only denormalized aggregate; streaks and win rates are always
// derived by scanning the player's attempts.
type Player struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WalletAddress string    `gorm:"uniqueIndex;not null;size:64" json:"wallet_address"`
	XP            int       `gorm:"default:0" json:"xp"`
	CreatedAt     time.Time `json:"created_at"`
	LastActiveAt  time.Time `json:"last_active_at"`

	Attempts     []Attempt             `gorm:"foreignKey:PlayerID" json:"attempts,omitempty"`
	Achievements []UnlockedAchievement `gorm:"foreignKey:PlayerID" json:"achievements,omitempty"`
}

func (Player) TableName() string {
	return "players"
}
