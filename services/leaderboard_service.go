package services

import (
	"errors"

	"sports-prediction-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// GetContestLeaderboard returns the ranked standings for one contest.
// Participants are the union of users with a prediction and users with a
// score row; the ranking itself happens in BuildContestLeaderboard.
func (s *LeaderboardService) GetContestLeaderboard(c *fiber.Ctx) error {
	contestID := c.Params("id")
	currentUser, err := resolveCurrentUser(s.DB, c)
	if err != nil {
		return writeError(c, err)
	}

	if err := s.DB.First(&models.Contest{}, "id = ?", contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return writeError(c, models.ErrContestNotFound)
		}
		return writeError(c, &models.StoreError{Op: "fetch contest", Err: err})
	}

	var predictors []models.User
	if err := s.DB.Model(&models.User{}).
		Joins("INNER JOIN predictions ON predictions.user_id = users.id").
		Where("predictions.contest_id = ?", contestID).
		Group("users.id").
		Find(&predictors).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch contest participants", Err: err})
	}

	var scores []models.UserContestScore
	if err := s.DB.Where("contest_id = ?", contestID).Find(&scores).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch contest scores", Err: err})
	}

	// A score row can be seeded before a visible prediction exists; those
	// users still belong on the board.
	havePredictor := make(map[string]bool, len(predictors))
	for _, u := range predictors {
		havePredictor[u.ID] = true
	}
	var scoreOnlyIDs []string
	for _, row := range scores {
		if !havePredictor[row.UserID] {
			scoreOnlyIDs = append(scoreOnlyIDs, row.UserID)
		}
	}
	participants := predictors
	if len(scoreOnlyIDs) > 0 {
		var scoreOnlyUsers []models.User
		if err := s.DB.Where("id IN ?", scoreOnlyIDs).Find(&scoreOnlyUsers).Error; err != nil {
			return writeError(c, &models.StoreError{Op: "fetch scored users", Err: err})
		}
		participants = append(participants, scoreOnlyUsers...)
	}

	return c.JSON(BuildContestLeaderboard(participants, scores, currentUser))
}

// GetAllTimeLeaderboard returns the global ranking across all contests.
func (s *LeaderboardService) GetAllTimeLeaderboard(c *fiber.Ctx) error {
	currentUser, err := resolveCurrentUser(s.DB, c)
	if err != nil {
		return writeError(c, err)
	}

	var rows []models.UserContestScore
	if err := s.DB.Find(&rows).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch scores", Err: err})
	}

	userIDs := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !seen[row.UserID] {
			seen[row.UserID] = true
			userIDs = append(userIDs, row.UserID)
		}
	}
	var users []models.User
	if len(userIDs) > 0 {
		if err := s.DB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return writeError(c, &models.StoreError{Op: "fetch scored users", Err: err})
		}
	}

	return c.JSON(BuildAllTimeLeaderboard(rows, users, currentUser))
}

// GetHistoricalWinners returns the top scorer of each past contest of a
// competition, newest season first. Contests with no score rows yet are
// skipped rather than reported as zero-score winners.
func (s *LeaderboardService) GetHistoricalWinners(c *fiber.Ctx) error {
	competitionID := c.Params("id")
	if _, err := resolveCurrentUser(s.DB, c); err != nil {
		return writeError(c, err)
	}

	var competition models.Competition
	if err := s.DB.First(&competition, "id = ?", competitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "competition not found"})
		}
		return writeError(c, &models.StoreError{Op: "fetch competition", Err: err})
	}

	var contests []models.Contest
	if err := s.DB.Where("competition_id = ?", competitionID).
		Order("year DESC").
		Find(&contests).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch contests", Err: err})
	}

	winners := make([]ContestWinner, 0, len(contests))
	for _, contest := range contests {
		var rows []models.UserContestScore
		if err := s.DB.Where("contest_id = ?", contest.ID).Find(&rows).Error; err != nil {
			return writeError(c, &models.StoreError{Op: "fetch contest scores", Err: err})
		}
		if len(rows) == 0 {
			continue
		}

		userIDs := make([]string, 0, len(rows))
		for _, row := range rows {
			userIDs = append(userIDs, row.UserID)
		}
		var users []models.User
		if err := s.DB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return writeError(c, &models.StoreError{Op: "fetch scored users", Err: err})
		}
		userByID := make(map[string]models.User, len(users))
		for _, u := range users {
			userByID[u.ID] = u
		}

		top, ok := pickContestWinner(rows, userByID)
		if !ok {
			continue
		}
		winner := userByID[top.UserID]
		winners = append(winners, ContestWinner{
			ID:              top.ID,
			UserID:          top.UserID,
			FirstName:       derefOr(winner.FirstName, ""),
			LastName:        derefOr(winner.LastName, ""),
			ProfileImageURL: derefOr(winner.ProfileImageURL, ""),
			ContestID:       contest.ID,
			Year:            contest.Year,
			CompetitionName: competition.Name,
			Score:           top.Score,
		})
	}

	return c.JSON(winners)
}
