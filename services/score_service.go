package services

import (
	"errors"

	"sports-prediction-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreService is the write surface the external scoring job uses. This
// service never computes scores from results itself; it only stores what the
// job hands it and lets the leaderboard side read.
type ScoreService struct {
	DB *gorm.DB
}

func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{DB: db}
}

// UpsertContestScore writes a user's score for one contest, keyed uniquely
// on (user, contest). PUT /admin/contests/:id/scores/:user_id.
func (s *ScoreService) UpsertContestScore(c *fiber.Ctx) error {
	contestID := c.Params("id")
	userID := c.Params("user_id")
	type Req struct {
		Score       int  `json:"score"`
		SeasonScore *int `json:"season_score,omitempty"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return writeError(c, models.ErrContestNotFound)
		}
		return writeError(c, &models.StoreError{Op: "fetch contest", Err: err})
	}
	if err := s.DB.First(&models.User{}, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return writeError(c, models.ErrUserNotFound)
		}
		return writeError(c, &models.StoreError{Op: "fetch user", Err: err})
	}

	seasonScore := req.Score
	if req.SeasonScore != nil {
		seasonScore = *req.SeasonScore
	}
	row := models.UserContestScore{
		ID:            uuid.NewString(),
		UserID:        userID,
		CompetitionID: contest.CompetitionID,
		ContestID:     contestID,
		Score:         req.Score,
		SeasonScore:   seasonScore,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "contest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "season_score", "last_updated"}),
	}).Create(&row).Error
	if err != nil {
		return writeError(c, &models.StoreError{Op: "upsert contest score", Err: err})
	}

	var saved models.UserContestScore
	s.DB.Where("user_id = ? AND contest_id = ?", userID, contestID).First(&saved)
	return c.JSON(saved)
}

// GetMyOverallScore sums the current user's contest scores on read rather
// than trusting the scoring job's aggregate rows.
func (s *ScoreService) GetMyOverallScore(c *fiber.Ctx) error {
	user, err := resolveCurrentUser(s.DB, c)
	if err != nil {
		return writeError(c, err)
	}

	var rows []models.UserContestScore
	if err := s.DB.Where("user_id = ?", user.ID).Find(&rows).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch scores", Err: err})
	}
	total := 0
	for _, row := range rows {
		total += row.Score
	}
	return c.JSON(fiber.Map{
		"user_id":         user.ID,
		"total_score":     total,
		"contests_played": len(rows),
	})
}
