package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"sports-prediction-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamIDs(teams []models.Team) []string {
	ids := make([]string, len(teams))
	for i, team := range teams {
		ids[i] = team.ID
	}
	return ids
}

func loadEntries(t *testing.T, svc *PredictionService, predictionID string) []models.PredictionEntry {
	t.Helper()
	var entries []models.PredictionEntry
	require.NoError(t, svc.DB.Where("prediction_id = ?", predictionID).
		Order("position ASC").Find(&entries).Error)
	return entries
}

func TestSavePredictionCreatesOrderedEntries(t *testing.T) {
	db := openTestDB(t)
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	contest, teams := seedContest(t, db, 2026, deadline, "Arsenal", "Chelsea", "Liverpool", "Spurs")
	user := seedUser(t, db, "ext-1", "Amy", "Adams")
	svc := NewPredictionService(db, clockwork.NewFakeClockAt(deadline.Add(-time.Hour)))

	ids := teamIDs(teams)
	result, err := svc.savePrediction(&user, contest.ID, ids)
	require.NoError(t, err)
	assert.Equal(t, len(ids), result.EntriesCount)

	entries := loadEntries(t, svc, result.PredictionID)
	require.Len(t, entries, len(ids))
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Position)
		assert.Equal(t, ids[i], entry.TeamID)
	}
}

func TestSavePredictionReplacesExisting(t *testing.T) {
	db := openTestDB(t)
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	contest, teams := seedContest(t, db, 2026, deadline, "Arsenal", "Chelsea", "Liverpool")
	user := seedUser(t, db, "ext-1", "Amy", "Adams")
	svc := NewPredictionService(db, clockwork.NewFakeClockAt(deadline.Add(-time.Hour)))

	ids := teamIDs(teams)
	first, err := svc.savePrediction(&user, contest.ID, ids)
	require.NoError(t, err)

	reversed := []string{ids[2], ids[1], ids[0]}
	second, err := svc.savePrediction(&user, contest.ID, reversed)
	require.NoError(t, err)
	assert.Equal(t, first.PredictionID, second.PredictionID)

	entries := loadEntries(t, svc, second.PredictionID)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, reversed[i], entry.TeamID)
	}

	var count int64
	require.NoError(t, db.Model(&models.Prediction{}).
		Where("user_id = ? AND contest_id = ?", user.ID, contest.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSavePredictionDeadline(t *testing.T) {
	db := openTestDB(t)
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	contest, teams := seedContest(t, db, 2026, deadline, "Arsenal", "Chelsea")
	user := seedUser(t, db, "ext-1", "Amy", "Adams")

	// exactly at the deadline counts as passed
	svc := NewPredictionService(db, clockwork.NewFakeClockAt(deadline))
	_, err := svc.savePrediction(&user, contest.ID, teamIDs(teams))
	assert.ErrorIs(t, err, models.ErrDeadlinePassed)

	svc = NewPredictionService(db, clockwork.NewFakeClockAt(deadline.Add(time.Minute)))
	_, err = svc.savePrediction(&user, contest.ID, teamIDs(teams))
	assert.ErrorIs(t, err, models.ErrDeadlinePassed)

	var count int64
	require.NoError(t, db.Model(&models.Prediction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSavePredictionUnknownContest(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "ext-1", "Amy", "Adams")
	svc := NewPredictionService(db, clockwork.NewFakeClockAt(time.Now()))

	_, err := svc.savePrediction(&user, "missing-contest", []string{"team-1"})
	assert.ErrorIs(t, err, models.ErrContestNotFound)
}

func TestSavePredictionEmptySelection(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "ext-1", "Amy", "Adams")
	svc := NewPredictionService(db, clockwork.NewFakeClockAt(time.Now()))

	_, err := svc.savePrediction(&user, "any", nil)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestValidateTeamSelection(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "Arsenal"},
		{ID: "t2", Name: "Chelsea"},
		{ID: "t3", Name: "Liverpool"},
	}

	tests := []struct {
		name    string
		ids     []string
		wantIDs []string
	}{
		{"foreign id", []string{"t1", "t2", "bogus"}, []string{"bogus"}},
		{"duplicate id", []string{"t1", "t2", "t2"}, []string{"t2"}},
		{"missing team", []string{"t1", "t2"}, []string{"t3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTeamSelection(tt.ids, teams)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantIDs, verr.TeamIDs)
		})
	}

	t.Run("exact cover passes", func(t *testing.T) {
		assert.NoError(t, validateTeamSelection([]string{"t3", "t1", "t2"}, teams))
	})
}

func newPredictionTestApp(svc *PredictionService, externalID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if externalID != "" {
			c.Locals("user_id", externalID)
		}
		return c.Next()
	})
	app.Post("/contests/:id/predictions", svc.SubmitPrediction)
	app.Post("/contests/:id/register", svc.RegisterForContest)
	return app
}

func TestSubmitPredictionHandler(t *testing.T) {
	db := openTestDB(t)
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	contest, teams := seedContest(t, db, 2026, deadline, "Arsenal", "Chelsea")
	seedUser(t, db, "ext-1", "Amy", "Adams")
	svc := NewPredictionService(db, clockwork.NewFakeClockAt(deadline.Add(-time.Hour)))
	app := newPredictionTestApp(svc, "ext-1")

	body, _ := json.Marshal(fiber.Map{"team_ids": teamIDs(teams)})
	req := httptest.NewRequest("POST", "/contests/"+contest.ID+"/predictions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	// empty payload is rejected before anything else, even without identity
	anon := newPredictionTestApp(svc, "")
	body, _ = json.Marshal(fiber.Map{"team_ids": []string{}})
	req = httptest.NewRequest("POST", "/contests/"+contest.ID+"/predictions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = anon.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestSubmitPredictionHandlerLocked(t *testing.T) {
	db := openTestDB(t)
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	contest, teams := seedContest(t, db, 2026, deadline, "Arsenal", "Chelsea")
	seedUser(t, db, "ext-1", "Amy", "Adams")
	svc := NewPredictionService(db, clockwork.NewFakeClockAt(deadline.Add(time.Hour)))
	app := newPredictionTestApp(svc, "ext-1")

	body, _ := json.Marshal(fiber.Map{"team_ids": teamIDs(teams)})
	req := httptest.NewRequest("POST", "/contests/"+contest.ID+"/predictions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, true, payload["locked"])
}

func TestRegisterForContest(t *testing.T) {
	db := openTestDB(t)
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	contest, _ := seedContest(t, db, 2026, deadline, "Arsenal", "Chelsea")
	seedUser(t, db, "ext-1", "Amy", "Adams")
	svc := NewPredictionService(db, clockwork.NewFakeClockAt(deadline.Add(-time.Hour)))
	app := newPredictionTestApp(svc, "ext-1")

	req := httptest.NewRequest("POST", "/contests/"+contest.ID+"/register", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	// second registration conflicts
	req = httptest.NewRequest("POST", "/contests/"+contest.ID+"/register", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}
