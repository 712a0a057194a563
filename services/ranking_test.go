package services

import (
	"testing"

	"sports-prediction-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankingUser(id, first, last string) models.User {
	return models.User{
		ID:             id,
		ExternalUserID: "ext-" + id,
		FirstName:      strPtr(first),
		LastName:       strPtr(last),
	}
}

func contestScore(id, userID string, score int) models.UserContestScore {
	return models.UserContestScore{ID: id, UserID: userID, ContestID: "contest-1", Score: score}
}

func TestBuildContestLeaderboardDenseRanks(t *testing.T) {
	participants := []models.User{
		rankingUser("u1", "Amy", "Adams"),
		rankingUser("u2", "Bob", "Baker"),
		rankingUser("u3", "Cara", "Cole"),
		rankingUser("u4", "Dan", "Drew"),
	}
	scores := []models.UserContestScore{
		contestScore("s1", "u1", 50),
		contestScore("s2", "u2", 50),
		contestScore("s3", "u3", 30),
		contestScore("s4", "u4", 10),
	}

	entries := BuildContestLeaderboard(participants, scores, &participants[0])
	require.Len(t, entries, 4)

	// tied leaders share rank 1, the next score takes its position
	assert.Equal(t, []int{1, 1, 3, 4}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank})
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, "u2", entries[1].UserID)
	assert.True(t, entries[0].IsCurrentUser)
	assert.False(t, entries[1].IsCurrentUser)
}

func TestBuildContestLeaderboardNameBreaksTies(t *testing.T) {
	participants := []models.User{
		rankingUser("u1", "Bob", "Baker"),
		rankingUser("u2", "Amy", "Adams"),
	}
	scores := []models.UserContestScore{
		contestScore("s1", "u1", 40),
		contestScore("s2", "u2", 40),
	}

	entries := BuildContestLeaderboard(participants, scores, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, "Amy", entries[0].FirstName)
	assert.Equal(t, "Bob", entries[1].FirstName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank)
}

func TestBuildContestLeaderboardScorelessParticipant(t *testing.T) {
	participants := []models.User{
		rankingUser("u1", "Amy", "Adams"),
		rankingUser("u2", "Bob", "Baker"),
	}
	scores := []models.UserContestScore{
		contestScore("s1", "u1", 25),
	}

	entries := BuildContestLeaderboard(participants, scores, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, "u2", entries[1].UserID)
	assert.Equal(t, 0, entries[1].Score)
	assert.Equal(t, "u2_no_score", entries[1].ID)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestBuildContestLeaderboardAppendsAbsentCurrentUser(t *testing.T) {
	participants := []models.User{
		rankingUser("u1", "Amy", "Adams"),
		rankingUser("u2", "Bob", "Baker"),
	}
	scores := []models.UserContestScore{
		contestScore("s1", "u1", 25),
		contestScore("s2", "u2", 15),
	}
	viewer := rankingUser("u9", "Zoe", "Zane")

	entries := BuildContestLeaderboard(participants, scores, &viewer)
	require.Len(t, entries, 3)

	last := entries[2]
	assert.Equal(t, "u9", last.UserID)
	assert.Equal(t, "u9_no_prediction", last.ID)
	assert.Equal(t, 0, last.Score)
	assert.Equal(t, 3, last.Rank)
	assert.True(t, last.IsCurrentUser)
}

func TestBuildContestLeaderboardDeduplicatesParticipants(t *testing.T) {
	amy := rankingUser("u1", "Amy", "Adams")
	participants := []models.User{amy, amy}
	scores := []models.UserContestScore{contestScore("s1", "u1", 10)}

	entries := BuildContestLeaderboard(participants, scores, &amy)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsCurrentUser)
}

func TestBuildAllTimeLeaderboardAggregates(t *testing.T) {
	users := []models.User{
		rankingUser("u1", "Amy", "Adams"),
		rankingUser("u2", "Bob", "Baker"),
		rankingUser("u3", "Cara", "Cole"),
	}
	rows := []models.UserContestScore{
		{ID: "s1", UserID: "u1", ContestID: "c1", Score: 30},
		{ID: "s2", UserID: "u1", ContestID: "c2", Score: 20},
		{ID: "s3", UserID: "u2", ContestID: "c1", Score: 50},
		{ID: "s4", UserID: "u3", ContestID: "c2", Score: 45},
	}

	entries := BuildAllTimeLeaderboard(rows, users, &users[2])
	require.Len(t, entries, 3)

	// u1 and u2 tie at 50; more contests played ranks first, and ranks stay
	// strictly sequential even on the tie
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, 50, entries[0].TotalScore)
	assert.Equal(t, 2, entries[0].ContestsPlayed)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, "u2", entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)

	assert.Equal(t, "u3", entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)
	assert.True(t, entries[2].IsCurrentUser)
}

func TestBuildAllTimeLeaderboardAppendsAbsentCurrentUser(t *testing.T) {
	users := []models.User{rankingUser("u1", "Amy", "Adams")}
	rows := []models.UserContestScore{
		{ID: "s1", UserID: "u1", ContestID: "c1", Score: 30},
	}
	viewer := rankingUser("u9", "Zoe", "Zane")

	entries := BuildAllTimeLeaderboard(rows, users, &viewer)
	require.Len(t, entries, 2)
	assert.Equal(t, "u9", entries[1].UserID)
	assert.Equal(t, 0, entries[1].TotalScore)
	assert.Equal(t, 0, entries[1].ContestsPlayed)
	assert.Equal(t, 2, entries[1].Rank)
	assert.True(t, entries[1].IsCurrentUser)
}

func TestPickContestWinner(t *testing.T) {
	users := map[string]models.User{
		"u1": rankingUser("u1", "Bob", "Baker"),
		"u2": rankingUser("u2", "Amy", "Adams"),
		"u3": rankingUser("u3", "Cara", "Cole"),
	}

	t.Run("highest score wins", func(t *testing.T) {
		rows := []models.UserContestScore{
			{ID: "s1", UserID: "u1", Score: 10},
			{ID: "s2", UserID: "u3", Score: 90},
			{ID: "s3", UserID: "u2", Score: 40},
		}
		best, ok := pickContestWinner(rows, users)
		require.True(t, ok)
		assert.Equal(t, "u3", best.UserID)
	})

	t.Run("name breaks score tie", func(t *testing.T) {
		rows := []models.UserContestScore{
			{ID: "s1", UserID: "u1", Score: 60},
			{ID: "s2", UserID: "u2", Score: 60},
		}
		best, ok := pickContestWinner(rows, users)
		require.True(t, ok)
		assert.Equal(t, "u2", best.UserID) // Amy before Bob
	})

	t.Run("no rows means no winner", func(t *testing.T) {
		_, ok := pickContestWinner(nil, users)
		assert.False(t, ok)
	})
}
