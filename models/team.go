package models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	InviteCodeLength   = 6
	InviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Team groups participants that registered together.
type Team struct {
	gorm.Model
	Name       string `gorm:"size:100;not null" json:"name"`
	InviteCode string `gorm:"size:10;uniqueIndex;not null" json:"invite_code"`

	// CreatedBy is the registrant that created the team.
	CreatedBy *uint `gorm:"index" json:"created_by,omitempty"`
}

// FirstNameToken returns the first whitespace separated token of name.
func FirstNameToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// FallbackTeamName is the name given to a team created without one.
func FallbackTeamName(registrant string) string {
	return "Team-" + FirstNameToken(registrant)
}

// ValidInviteCode reports whether code has the invite code shape.
func ValidInviteCode(code string) bool {
	if len(code) != InviteCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(InviteCodeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
