package models

import (
	"time"
)

// User is the local user record. Identity fields are immutable once created;
// profile fields are refreshed by the profile sync worker.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	ExternalUserID  string    `json:"external_user_id" gorm:"uniqueIndex;not null"` // auth provider's user id
	Email           *string   `json:"email,omitempty" gorm:"uniqueIndex"`
	FirstName       *string   `json:"first_name,omitempty"`
	LastName        *string   `json:"last_name,omitempty"`
	Gender          *string   `json:"gender,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// DisplayName joins the name parts the way leaderboards order them.
func (u *User) DisplayName() string {
	first, last := "", ""
	if u.FirstName != nil {
		first = *u.FirstName
	}
	if u.LastName != nil {
		last = *u.LastName
	}
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}
