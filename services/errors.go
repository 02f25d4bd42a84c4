package services

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already has an account.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidInviteCode is returned when no team owns the given invite code.
	ErrInvalidInviteCode = errors.New("invalid invite code")
	// ErrInvalidCredentials is returned by participant and admin login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAuthRequired is returned when an operation needs a logged in participant.
	ErrAuthRequired = errors.New("authentication required")
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInviteCodesExhausted is returned when every invite code draw collided.
	ErrInviteCodesExhausted = errors.New("could not generate a unique invite code")

	errInviteCodeTaken = errors.New("invite code taken")
)

// isUniqueViolation recognises unique constraint failures from every
// supported driver, translated or not.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
