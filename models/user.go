package models

import "gorm.io/gorm"

// User is a registered participant.
type User struct {
	gorm.Model

	Name         string `gorm:"size:120;not null" json:"name"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"size:20;not null" json:"phone"`
	College      string `gorm:"size:120;not null" json:"college"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// TeamID is nil for participants that never joined a team.
	TeamID *uint `gorm:"index" json:"team_id,omitempty"`
}

// FirstName returns the first whitespace separated token of the user's name.
func (u *User) FirstName() string {
	return FirstNameToken(u.Name)
}
