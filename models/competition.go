package models

import (
	"time"
)

// Competition is a named recurring tournament, e.g. "Premier League".
type Competition struct {
	ID             string  `json:"id" gorm:"primaryKey"`
	Name           string  `json:"name" gorm:"uniqueIndex;not null"`
	Slug           string  `json:"slug" gorm:"uniqueIndex;not null"` // "premier-league"
	SportType      string  `json:"sport_type" gorm:"not null"`       // cricket, football, basketball
	LogoURL        string  `json:"logo_url,omitempty"`
	SeasonDuration string  `json:"season_duration,omitempty"` // "September-June", display only

	// Relationships
	Contests []Contest `json:"contests,omitempty" gorm:"foreignKey:CompetitionID"`
}

// Contest is one year's instance of a Competition that users predict against.
type Contest struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	CompetitionID      string    `json:"competition_id" gorm:"not null;index"`
	Year               int       `json:"year" gorm:"not null"`
	StartTime          time.Time `json:"start_time" gorm:"not null"`
	EndTime            time.Time `json:"end_time" gorm:"not null"`
	PredictionDeadline time.Time `json:"prediction_deadline" gorm:"not null"`
	IsActive           bool      `json:"is_active" gorm:"default:true"`

	// Relationships
	Competition Competition `json:"competition,omitempty" gorm:"foreignKey:CompetitionID"`
	Teams       []Team      `json:"teams,omitempty" gorm:"foreignKey:ContestID"`
}

// Team belongs to exactly one contest.
type Team struct {
	ID        string `json:"id" gorm:"primaryKey"`
	ContestID string `json:"contest_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null"`
	ShortCode string `json:"short_code,omitempty"` // e.g. MCI for Manchester City
	LogoURL   string `json:"logo_url,omitempty"`
}

// SupportedSportTypes lists the sport categories a competition can carry.
var SupportedSportTypes = []string{"cricket", "football", "basketball"}

// IsSupportedSportType reports whether sportType is one of SupportedSportTypes.
func IsSupportedSportType(sportType string) bool {
	for _, s := range SupportedSportTypes {
		if s == sportType {
			return true
		}
	}
	return false
}
