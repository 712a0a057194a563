package services

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"sports-prediction-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertContestScore(t *testing.T) {
	db := openTestDB(t)
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	contest, _ := seedContest(t, db, 2026, deadline, "Arsenal")
	user := seedUser(t, db, "ext-amy", "Amy", "Adams")

	svc := NewScoreService(db)
	app := fiber.New()
	app.Put("/admin/contests/:id/scores/:user_id", svc.UpsertContestScore)

	put := func(score int) int {
		body, _ := json.Marshal(fiber.Map{"score": score, "season_score": score})
		req := httptest.NewRequest("PUT", "/admin/contests/"+contest.ID+"/scores/"+user.ID, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, 200, put(40))
	// a rerun of the scoring job overwrites, it never accumulates
	assert.Equal(t, 200, put(55))

	var rows []models.UserContestScore
	require.NoError(t, db.Where("contest_id = ?", contest.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 55, rows[0].Score)
	assert.Equal(t, user.ID, rows[0].UserID)
}
