package models

import (
	"time"
)

// UserContestScore is a user's points for one contest, written by the
// external scoring job once results are known. This service only reads and
// aggregates it, except for the admin upsert endpoint the job calls.
type UserContestScore struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_score_user_contest"`
	CompetitionID string    `json:"competition_id" gorm:"index"`
	ContestID     string    `json:"contest_id" gorm:"not null;index;uniqueIndex:idx_score_user_contest"`
	Score         int       `json:"score" gorm:"default:0"`
	SeasonScore   int       `json:"season_score" gorm:"default:0"` // competition's annual tracking
	LastUpdated   time.Time `json:"last_updated" gorm:"autoUpdateTime"`
}

// UserOverallScore mirrors the scoring job's per-year aggregate rows.
// The all-time leaderboard does not trust it; totals are computed on read
// from UserContestScore so the view stays correct even when the job lags.
type UserOverallScore struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;index"`
	TotalScore  int       `json:"total_score" gorm:"default:0"`
	AnnualScore int       `json:"annual_score" gorm:"default:0"`
	Year        int       `json:"year" gorm:"not null"`
	LastUpdated time.Time `json:"last_updated" gorm:"autoUpdateTime"`
}
