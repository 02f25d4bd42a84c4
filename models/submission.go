package models

import "gorm.io/gorm"

// Submission is a participant's current project entry. The unique index on
// UserID keeps it to one row per participant.
type Submission struct {
	gorm.Model
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	GithubURL   string `gorm:"size:255;not null" json:"github"`
	VideoURL    string `gorm:"size:255;not null" json:"video"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
}
