package models

import "gorm.io/gorm"

type Feedback struct {
	gorm.Model
	Text   string `gorm:"type:text;not null" json:"text"`
	Rating string `gorm:"size:10;not null" json:"rating"`

	UserID *uint `gorm:"index" json:"user_id,omitempty"`
}
