package database_test

import (
	"testing"

	"chronoline/database"
	"chronoline/models"
	"chronoline/services"
	"chronoline/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAchievements_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var count int64
	db.Model(&models.Achievement{}).Count(&count)
	require.Equal(t, int64(len(services.AchievementCatalog())), count)

	// Re-seeding must not duplicate or renumber anything.
	require.NoError(t, database.SeedAchievements())
	db.Model(&models.Achievement{}).Count(&count)
	assert.Equal(t, int64(len(services.AchievementCatalog())), count)

	var first models.Achievement
	require.NoError(t, db.Where("slug = ?", services.AchFirstWin).First(&first).Error)
	assert.Equal(t, uint(1), first.ID)
}

func TestUnlockedAchievement_NaturalKeyEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)

	player := models.Player{WalletAddress: "0x5555555555555555555555555555555555555555"}
	require.NoError(t, db.Create(&player).Error)

	row := models.UnlockedAchievement{PlayerID: player.ID, AchievementID: 1}
	require.NoError(t, db.Create(&row).Error)

	dup := models.UnlockedAchievement{PlayerID: player.ID, AchievementID: 1}
	assert.Error(t, db.Create(&dup).Error)
}
