package services

import (
	"errors"

	"sports-prediction-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PredictionService struct {
	DB    *gorm.DB
	Clock clockwork.Clock
}

func NewPredictionService(db *gorm.DB, clock clockwork.Clock) *PredictionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PredictionService{DB: db, Clock: clock}
}

// SubmitResult is returned from a successful prediction save. EntriesCount
// should match the submitted team count; callers treat a mismatch as a
// partial-write signal.
type SubmitResult struct {
	PredictionID string `json:"prediction_id"`
	EntriesCount int    `json:"entries_count"`
}

// SubmitPrediction saves the current user's ordered team prediction for a
// contest. POST /contests/:id/predictions with {"team_ids": [...]} in
// standings order.
func (s *PredictionService) SubmitPrediction(c *fiber.Ctx) error {
	type Req struct {
		TeamIDs []string `json:"team_ids"`
	}
	contestID := c.Params("id")
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	// payload check comes before identity resolution
	if len(req.TeamIDs) == 0 {
		return writeError(c, models.NewValidationError("no team predictions provided"))
	}

	user, err := resolveCurrentUser(s.DB, c)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.savePrediction(user, contestID, req.TeamIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"success":       true,
		"prediction_id": result.PredictionID,
		"entries_count": result.EntriesCount,
	})
}

// savePrediction runs the submission protocol: validate, then create or
// replace the prediction's entries in one transaction.
func (s *PredictionService) savePrediction(user *models.User, contestID string, teamIDs []string) (*SubmitResult, error) {
	if len(teamIDs) == 0 {
		return nil, models.NewValidationError("no team predictions provided")
	}

	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrContestNotFound
		}
		return nil, &models.StoreError{Op: "fetch contest", Err: err}
	}

	// The deadline check is authoritative here regardless of any client-side
	// check. Submissions at exactly the deadline are rejected.
	if !s.Clock.Now().Before(contest.PredictionDeadline) {
		return nil, models.ErrDeadlinePassed
	}

	var contestTeams []models.Team
	if err := s.DB.Where("contest_id = ?", contestID).Find(&contestTeams).Error; err != nil {
		return nil, &models.StoreError{Op: "fetch teams", Err: err}
	}
	if err := validateTeamSelection(teamIDs, contestTeams); err != nil {
		return nil, err
	}

	result := &SubmitResult{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prediction models.Prediction
		query := tx.Where("user_id = ? AND contest_id = ?", user.ID, contestID)
		if tx.Dialector.Name() == "postgres" {
			// serialize concurrent replaces for the same (user, contest)
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := query.First(&prediction).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			prediction = models.Prediction{
				ID:        uuid.NewString(),
				UserID:    user.ID,
				ContestID: contestID,
			}
			if err := tx.Create(&prediction).Error; err != nil {
				return &models.StoreError{Op: "create prediction", Err: err}
			}
		case err != nil:
			return &models.StoreError{Op: "fetch prediction", Err: err}
		default:
			// full replace, never a merge
			if err := tx.Where("prediction_id = ?", prediction.ID).
				Delete(&models.PredictionEntry{}).Error; err != nil {
				return &models.StoreError{Op: "delete prediction entries", Err: err}
			}
		}

		entries := make([]models.PredictionEntry, len(teamIDs))
		for i, teamID := range teamIDs {
			entries[i] = models.PredictionEntry{
				ID:           uuid.NewString(),
				PredictionID: prediction.ID,
				TeamID:       teamID,
				Position:     i + 1,
			}
		}
		if err := tx.Create(&entries).Error; err != nil {
			return &models.StoreError{Op: "insert prediction entries", Err: err}
		}

		result.PredictionID = prediction.ID
		result.EntriesCount = len(entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateTeamSelection checks the submitted ids against the contest's team
// set: no foreign ids, no duplicates, and every contest team covered exactly
// once. Partial orderings are rejected so scoring stays well defined.
func validateTeamSelection(teamIDs []string, contestTeams []models.Team) error {
	valid := make(map[string]bool, len(contestTeams))
	for _, team := range contestTeams {
		valid[team.ID] = true
	}

	var invalid, duplicate []string
	seen := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		if !valid[id] {
			invalid = append(invalid, id)
			continue
		}
		if seen[id] {
			duplicate = append(duplicate, id)
			continue
		}
		seen[id] = true
	}
	if len(invalid) > 0 {
		return models.NewValidationError("invalid team ids for this contest", invalid...)
	}
	if len(duplicate) > 0 {
		return models.NewValidationError("duplicate team ids", duplicate...)
	}

	var missing []string
	for _, team := range contestTeams {
		if !seen[team.ID] {
			missing = append(missing, team.ID)
		}
	}
	if len(missing) > 0 {
		return models.NewValidationError("prediction must cover every team in the contest", missing...)
	}
	return nil
}

// GetUserPrediction returns the current user's prediction for a contest with
// team details, ordered by position. Responds with null when the user has not
// predicted yet; that is not an error.
func (s *PredictionService) GetUserPrediction(c *fiber.Ctx) error {
	contestID := c.Params("id")
	user, err := resolveCurrentUser(s.DB, c)
	if err != nil {
		return writeError(c, err)
	}

	var prediction models.Prediction
	err = s.DB.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Entries.Team").
		Where("user_id = ? AND contest_id = ?", user.ID, contestID).
		First(&prediction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return writeError(c, &models.StoreError{Op: "fetch prediction", Err: err})
	}
	return c.JSON(prediction)
}

// RegisterForContest creates an empty prediction row, registering the user
// as a contest entrant before they have ordered any teams.
func (s *PredictionService) RegisterForContest(c *fiber.Ctx) error {
	contestID := c.Params("id")
	user, err := resolveCurrentUser(s.DB, c)
	if err != nil {
		return writeError(c, err)
	}

	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return writeError(c, models.ErrContestNotFound)
		}
		return writeError(c, &models.StoreError{Op: "fetch contest", Err: err})
	}
	if !s.Clock.Now().Before(contest.PredictionDeadline) {
		return writeError(c, models.ErrDeadlinePassed)
	}

	var existing models.Prediction
	err = s.DB.Where("user_id = ? AND contest_id = ?", user.ID, contestID).First(&existing).Error
	if err == nil {
		return writeError(c, models.ErrAlreadyRegistered)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return writeError(c, &models.StoreError{Op: "fetch prediction", Err: err})
	}

	prediction := models.Prediction{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ContestID: contestID,
	}
	if err := s.DB.Create(&prediction).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "create prediction", Err: err})
	}
	return c.Status(201).JSON(prediction)
}

// GetContestPredictionCount returns the number of entrants for a contest.
func (s *PredictionService) GetContestPredictionCount(c *fiber.Ctx) error {
	contestID := c.Params("id")
	var count int64
	if err := s.DB.Model(&models.Prediction{}).
		Where("contest_id = ?", contestID).
		Count(&count).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "count predictions", Err: err})
	}
	return c.JSON(fiber.Map{"contest_id": contestID, "count": count})
}
