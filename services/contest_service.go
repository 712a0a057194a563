package services

import (
	"errors"
	"path/filepath"
	"time"

	"sports-prediction-system/models"
	"sports-prediction-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContestService struct {
	DB *gorm.DB
}

func NewContestService(db *gorm.DB) *ContestService {
	return &ContestService{DB: db}
}

// CreateContest creates one year's instance of a competition. Admin only.
func (s *ContestService) CreateContest(c *fiber.Ctx) error {
	type Req struct {
		CompetitionID      string `json:"competition_id"`
		Year               int    `json:"year"`
		StartTime          string `json:"start_time"`          // RFC3339
		EndTime            string `json:"end_time"`            // RFC3339
		PredictionDeadline string `json:"prediction_deadline"` // RFC3339
		IsActive           *bool  `json:"is_active,omitempty"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.CompetitionID == "" || req.Year == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "competition_id and year are required"})
	}

	if err := s.DB.First(&models.Competition{}, "id = ?", req.CompetitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(400).JSON(fiber.Map{"error": "competition_id not found"})
		}
		return writeError(c, &models.StoreError{Op: "fetch competition", Err: err})
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_time (use RFC3339)"})
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid end_time (use RFC3339)"})
	}
	deadline, err := time.Parse(time.RFC3339, req.PredictionDeadline)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid prediction_deadline (use RFC3339)"})
	}
	if !endTime.After(startTime) {
		return c.Status(400).JSON(fiber.Map{"error": "end_time must be after start_time"})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	contest := models.Contest{
		ID:                 uuid.NewString(),
		CompetitionID:      req.CompetitionID,
		Year:               req.Year,
		StartTime:          startTime,
		EndTime:            endTime,
		PredictionDeadline: deadline,
		IsActive:           isActive,
	}
	if err := s.DB.Create(&contest).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "create contest", Err: err})
	}
	return c.Status(201).JSON(contest)
}

// GetContests lists all contests with their competition, newest first.
func (s *ContestService) GetContests(c *fiber.Ctx) error {
	var contests []models.Contest
	if err := s.DB.
		Preload("Competition").
		Order("start_time DESC").
		Find(&contests).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch contests", Err: err})
	}
	return c.JSON(contests)
}

// GetContestWithTeams returns one contest with competition info and its
// full team set, the payload the prediction form is built from.
func (s *ContestService) GetContestWithTeams(c *fiber.Ctx) error {
	id := c.Params("id")
	var contest models.Contest
	err := s.DB.
		Preload("Competition").
		Preload("Teams", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&contest, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return writeError(c, models.ErrContestNotFound)
		}
		return writeError(c, &models.StoreError{Op: "fetch contest", Err: err})
	}
	return c.JSON(contest)
}

// UpdateContestStatus toggles the active flag.
func (s *ContestService) UpdateContestStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	type Req struct {
		IsActive bool `json:"is_active"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	result := s.DB.Model(&models.Contest{}).
		Where("id = ?", id).
		Update("is_active", req.IsActive)
	if result.Error != nil {
		return writeError(c, &models.StoreError{Op: "update contest", Err: result.Error})
	}
	if result.RowsAffected == 0 {
		return writeError(c, models.ErrContestNotFound)
	}
	var contest models.Contest
	s.DB.First(&contest, "id = ?", id)
	return c.JSON(contest)
}

// CreateTeam adds a team to a contest, with an optional logo upload.
func (s *ContestService) CreateTeam(c *fiber.Ctx) error {
	contestID := c.Params("id")
	name := c.FormValue("name")
	shortCode := c.FormValue("short_code")
	if name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	if err := s.DB.First(&models.Contest{}, "id = ?", contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return writeError(c, models.ErrContestNotFound)
		}
		return writeError(c, &models.StoreError{Op: "fetch contest", Err: err})
	}

	var logoURL string
	if logo, err := c.FormFile("logo"); err == nil && logo.Size > 0 {
		ext := filepath.Ext(logo.Filename)
		if ext == "" {
			ext = ".png"
		}
		key := "teams/logos/" + uuid.NewString() + ext
		url, err := utils.StoreUpload(logo, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload logo"})
		}
		logoURL = url
	}

	team := models.Team{
		ID:        uuid.NewString(),
		ContestID: contestID,
		Name:      name,
		ShortCode: shortCode,
		LogoURL:   logoURL,
	}
	if err := s.DB.Create(&team).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "create team", Err: err})
	}
	return c.Status(201).JSON(team)
}

// GetTeamsByContest lists a contest's teams.
func (s *ContestService) GetTeamsByContest(c *fiber.Ctx) error {
	contestID := c.Params("id")
	var teams []models.Team
	if err := s.DB.Where("contest_id = ?", contestID).
		Order("name ASC").
		Find(&teams).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch teams", Err: err})
	}
	return c.JSON(teams)
}

// DeleteTeam removes a team. Fails once predictions reference it, keeping
// submitted orderings consistent.
func (s *ContestService) DeleteTeam(c *fiber.Ctx) error {
	id := c.Params("id")

	var referenced int64
	if err := s.DB.Model(&models.PredictionEntry{}).
		Where("team_id = ?", id).
		Count(&referenced).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "count prediction entries", Err: err})
	}
	if referenced > 0 {
		return c.Status(409).JSON(fiber.Map{"error": "team is referenced by predictions"})
	}

	result := s.DB.Delete(&models.Team{}, "id = ?", id)
	if result.Error != nil {
		return writeError(c, &models.StoreError{Op: "delete team", Err: result.Error})
	}
	if result.RowsAffected == 0 {
		return writeError(c, models.ErrTeamNotFound)
	}
	return c.JSON(fiber.Map{"message": "team deleted"})
}

// GetAdminStats aggregates dashboard numbers: totals plus per-contest
// entrant and team counts.
func (s *ContestService) GetAdminStats(c *fiber.Ctx) error {
	type ContestStat struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Year          int    `json:"year"`
		SportType     string `json:"sport_type"`
		EntrantsCount int64  `json:"entrants_count"`
		TeamsCount    int64  `json:"teams_count"`
	}

	var contests []models.Contest
	if err := s.DB.Preload("Competition").Find(&contests).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch contests", Err: err})
	}

	stats := make([]ContestStat, 0, len(contests))
	for _, contest := range contests {
		var entrants, teams int64
		s.DB.Model(&models.Prediction{}).Where("contest_id = ?", contest.ID).Count(&entrants)
		s.DB.Model(&models.Team{}).Where("contest_id = ?", contest.ID).Count(&teams)
		stats = append(stats, ContestStat{
			ID:            contest.ID,
			Name:          contest.Competition.Name,
			Year:          contest.Year,
			SportType:     contest.Competition.SportType,
			EntrantsCount: entrants,
			TeamsCount:    teams,
		})
	}

	var totalContests, totalCompetitions, totalPredictions, activeContests int64
	s.DB.Model(&models.Contest{}).Count(&totalContests)
	s.DB.Model(&models.Competition{}).Count(&totalCompetitions)
	s.DB.Model(&models.Prediction{}).Count(&totalPredictions)
	s.DB.Model(&models.Contest{}).Where("is_active = ?", true).Count(&activeContests)

	return c.JSON(fiber.Map{
		"total_contests":     totalContests,
		"total_competitions": totalCompetitions,
		"total_predictions":  totalPredictions,
		"active_contests":    activeContests,
		"contest_stats":      stats,
	})
}
