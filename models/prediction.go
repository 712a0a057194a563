package models

import (
	"time"
)

// Prediction is a user's submitted ordering of a contest's teams.
// At most one per (user, contest); entries are replaced in place on
// resubmission before the deadline.
type Prediction struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_prediction_user_contest"`
	ContestID   string    `json:"contest_id" gorm:"not null;index;uniqueIndex:idx_prediction_user_contest"`
	CreatedTime time.Time `json:"created_time" gorm:"autoCreateTime"`

	// Relationships
	Entries []PredictionEntry `json:"entries,omitempty" gorm:"foreignKey:PredictionID"`
}

// PredictionEntry is one (team, position) pair within a prediction.
// Position is 1-indexed and unique within the prediction, as is the team.
type PredictionEntry struct {
	ID           string `json:"id" gorm:"primaryKey"`
	PredictionID string `json:"prediction_id" gorm:"not null;index;uniqueIndex:idx_entry_position;uniqueIndex:idx_entry_team"`
	TeamID       string `json:"team_id" gorm:"not null;uniqueIndex:idx_entry_team"`
	Position     int    `json:"position" gorm:"not null;uniqueIndex:idx_entry_position"`

	// Relationship used for prediction readback
	Team Team `json:"team,omitempty" gorm:"foreignKey:TeamID"`
}
