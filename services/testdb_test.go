package services

import (
	"path/filepath"
	"testing"
	"time"

	"sports-prediction-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Competition{},
		&models.Contest{},
		&models.Team{},
		&models.Prediction{},
		&models.PredictionEntry{},
		&models.UserContestScore{},
		&models.UserOverallScore{},
	))
	return db
}

func strPtr(s string) *string {
	return &s
}

func seedUser(t *testing.T, db *gorm.DB, externalID, first, last string) models.User {
	t.Helper()
	user := models.User{
		ID:             uuid.NewString(),
		ExternalUserID: externalID,
		Email:          strPtr(externalID + "@example.com"),
		FirstName:      strPtr(first),
		LastName:       strPtr(last),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedContest(t *testing.T, db *gorm.DB, year int, deadline time.Time, teamNames ...string) (models.Contest, []models.Team) {
	t.Helper()
	competition := models.Competition{
		ID:        uuid.NewString(),
		Name:      "Test League " + uuid.NewString(),
		Slug:      "test-league-" + uuid.NewString(),
		SportType: "football",
	}
	require.NoError(t, db.Create(&competition).Error)

	contest := models.Contest{
		ID:                 uuid.NewString(),
		CompetitionID:      competition.ID,
		Year:               year,
		StartTime:          deadline,
		EndTime:            deadline.Add(30 * 24 * time.Hour),
		PredictionDeadline: deadline,
		IsActive:           true,
	}
	require.NoError(t, db.Create(&contest).Error)

	teams := make([]models.Team, len(teamNames))
	for i, name := range teamNames {
		teams[i] = models.Team{
			ID:        uuid.NewString(),
			ContestID: contest.ID,
			Name:      name,
		}
	}
	if len(teams) > 0 {
		require.NoError(t, db.Create(&teams).Error)
	}
	return contest, teams
}

func seedScore(t *testing.T, db *gorm.DB, userID string, contest models.Contest, score int) models.UserContestScore {
	t.Helper()
	row := models.UserContestScore{
		ID:            uuid.NewString(),
		UserID:        userID,
		CompetitionID: contest.CompetitionID,
		ContestID:     contest.ID,
		Score:         score,
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}
