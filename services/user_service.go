package services

import (
	"errors"
	"strconv"
	"strings"

	"sports-prediction-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// resolveCurrentUser maps the gateway-injected external identity to the local
// user row. Every authenticated read and write goes through this.
func resolveCurrentUser(db *gorm.DB, c *fiber.Ctx) (*models.User, error) {
	externalID, _ := c.Locals("user_id").(string)
	if externalID == "" {
		return nil, models.ErrUnauthorized
	}
	var user models.User
	if err := db.First(&user, "external_user_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, &models.StoreError{Op: "lookup user", Err: err}
	}
	return &user, nil
}

// GetMe returns the current user's profile.
func (s *UserService) GetMe(c *fiber.Ctx) error {
	user, err := resolveCurrentUser(s.DB, c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

// UpsertProfile creates the local user row on first authenticated access and
// refreshes the mutable profile fields afterwards. Identity fields never change.
func (s *UserService) UpsertProfile(c *fiber.Ctx) error {
	externalID, _ := c.Locals("user_id").(string)
	if externalID == "" {
		return writeError(c, models.ErrUnauthorized)
	}

	type Req struct {
		Email           *string `json:"email,omitempty"`
		FirstName       *string `json:"first_name,omitempty"`
		LastName        *string `json:"last_name,omitempty"`
		Gender          *string `json:"gender,omitempty"`
		ProfileImageURL *string `json:"profile_image_url,omitempty"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	var user models.User
	err := s.DB.First(&user, "external_user_id = ?", externalID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:              uuid.NewString(),
			ExternalUserID:  externalID,
			Email:           req.Email,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Gender:          req.Gender,
			ProfileImageURL: req.ProfileImageURL,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return writeError(c, &models.StoreError{Op: "create user", Err: err})
		}
		return c.Status(201).JSON(user)
	case err != nil:
		return writeError(c, &models.StoreError{Op: "lookup user", Err: err})
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.ProfileImageURL != nil {
		updates["profile_image_url"] = *req.ProfileImageURL
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
			return writeError(c, &models.StoreError{Op: "update user", Err: err})
		}
	}
	s.DB.First(&user, "id = ?", user.ID)
	return c.JSON(user)
}

// SearchUsers searches local users by name or email, for admin tooling.
func (s *UserService) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	var users []models.User
	db := s.DB.Model(&models.User{}).Limit(limit)
	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}
	if err := db.Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}

	type UserSummary struct {
		ID             string `json:"id"`
		ExternalUserID string `json:"external_user_id"`
		Name           string `json:"name"`
		Email          string `json:"email,omitempty"`
	}
	res := make([]UserSummary, len(users))
	for i, u := range users {
		email := ""
		if u.Email != nil {
			email = *u.Email
		}
		res[i] = UserSummary{
			ID:             u.ID,
			ExternalUserID: u.ExternalUserID,
			Name:           u.DisplayName(),
			Email:          email,
		}
	}
	return c.JSON(res)
}
