package services

import (
	"path/filepath"

	"sports-prediction-system/models"
	"sports-prediction-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CompetitionService struct {
	DB *gorm.DB
}

func NewCompetitionService(db *gorm.DB) *CompetitionService {
	return &CompetitionService{DB: db}
}

// CreateCompetition creates a named recurring tournament. Admin only.
func (s *CompetitionService) CreateCompetition(c *fiber.Ctx) error {
	name := c.FormValue("name")
	sportType := c.FormValue("sport_type")
	seasonDuration := c.FormValue("season_duration")

	if name == "" || sportType == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and sport_type are required"})
	}
	if !models.IsSupportedSportType(sportType) {
		return c.Status(400).JSON(fiber.Map{"error": "unsupported sport_type", "supported": models.SupportedSportTypes})
	}

	var logoURL string
	if logo, err := c.FormFile("logo"); err == nil && logo.Size > 0 {
		ext := filepath.Ext(logo.Filename)
		if ext == "" {
			ext = ".png"
		}
		key := "competitions/logos/" + uuid.NewString() + ext
		url, err := utils.StoreUpload(logo, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload logo"})
		}
		logoURL = url
	}

	competition := models.Competition{
		ID:             uuid.NewString(),
		Name:           name,
		Slug:           slug.Make(name),
		SportType:      sportType,
		LogoURL:        logoURL,
		SeasonDuration: seasonDuration,
	}
	if err := s.DB.Create(&competition).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "create competition", Err: err})
	}
	return c.Status(201).JSON(competition)
}

// GetCompetitions lists competitions for pickers and admin views.
func (s *CompetitionService) GetCompetitions(c *fiber.Ctx) error {
	var competitions []models.Competition
	if err := s.DB.Order("name DESC").Find(&competitions).Error; err != nil {
		return writeError(c, &models.StoreError{Op: "fetch competitions", Err: err})
	}
	return c.JSON(competitions)
}

// GetCompetitionBySlug fetches one competition with its contests.
func (s *CompetitionService) GetCompetitionBySlug(c *fiber.Ctx) error {
	competitionSlug := c.Params("slug")
	var competition models.Competition
	err := s.DB.
		Preload("Contests", func(db *gorm.DB) *gorm.DB {
			return db.Order("year DESC")
		}).
		First(&competition, "slug = ?", competitionSlug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "competition not found"})
		}
		return writeError(c, &models.StoreError{Op: "fetch competition", Err: err})
	}
	return c.JSON(competition)
}
