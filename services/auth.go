package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hackportal/models"
	"hackportal/utils"
)

const (
	TeamChoiceCreate = "create"
	TeamChoiceJoin   = "join"
)

// Notifier is told about every successful registration.
type Notifier interface {
	SendWelcome(ctx context.Context, user *models.User, team *models.Team) error
}

// AdminCredentials is the single configured administrator account.
type AdminCredentials struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	College    string
	Password   string
	TeamChoice string
	TeamName   string
	InviteCode string
}

type AuthService struct {
	db       *gorm.DB
	users    *UserService
	teams    *TeamService
	admin    AdminCredentials
	notifier Notifier
	log      *logrus.Entry
}

// NewAuthService wires registration and login. notifier may be nil.
func NewAuthService(db *gorm.DB, users *UserService, teams *TeamService, admin AdminCredentials, notifier Notifier, log *logrus.Entry) *AuthService {
	admin.Email = normalizeEmail(admin.Email)
	return &AuthService{db: db, users: users, teams: teams, admin: admin, notifier: notifier, log: log}
}

// Register creates a participant and puts them in a new or existing team.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Team, error) {
	email := normalizeEmail(in.Email)

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, nil, errors.Wrap(err, "check email")
	}
	if existing > 0 {
		return nil, nil, ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, nil, errors.Wrap(err, "hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		College:      strings.TrimSpace(in.College),
		PasswordHash: hash,
	}

	var team *models.Team
	switch in.TeamChoice {
	case TeamChoiceCreate:
		team, err = s.registerWithNewTeam(ctx, user, in.TeamName)
	case TeamChoiceJoin:
		team, err = s.registerIntoTeam(ctx, user, in.InviteCode)
	default:
		err = errors.Errorf("unknown team choice %q", in.TeamChoice)
	}
	if err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"team_id": team.ID,
		"choice":  in.TeamChoice,
	}).Info("Participant registered")

	if s.notifier != nil {
		if err := s.notifier.SendWelcome(ctx, user, team); err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
		}
	}
	return user, team, nil
}

func (s *AuthService) registerIntoTeam(ctx context.Context, user *models.User, inviteCode string) (*models.Team, error) {
	team, err := s.teams.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	user.TeamID = &team.ID
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, "create user")
	}
	return team, nil
}

// registerWithNewTeam writes the team, the user and the team's creator in
// one transaction. A code collision at insert time, which the pre-check
// cannot rule out under concurrency, restarts the transaction with a new code.
func (s *AuthService) registerWithNewTeam(ctx context.Context, user *models.User, teamName string) (*models.Team, error) {
	name := strings.TrimSpace(teamName)
	if name == "" {
		name = models.FallbackTeamName(user.Name)
	}

	for attempt := 1; attempt <= MaxInviteCodeAttempts; attempt++ {
		team := &models.Team{Name: name}
		user.ID = 0
		user.TeamID = nil

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			code, err := s.teams.NewInviteCode(ctx, tx)
			if err != nil {
				return err
			}
			team.InviteCode = code

			if err := tx.Create(team).Error; err != nil {
				if isUniqueViolation(err) {
					return errInviteCodeTaken
				}
				return errors.Wrap(err, "create team")
			}

			user.TeamID = &team.ID
			if err := tx.Create(user).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicateEmail
				}
				return errors.Wrap(err, "create user")
			}

			team.CreatedBy = &user.ID
			if err := tx.Model(team).Update("created_by", user.ID).Error; err != nil {
				return errors.Wrap(err, "record team creator")
			}
			return nil
		})
		if errors.Is(err, errInviteCodeTaken) {
			s.log.WithField("attempt", attempt).Warn("Invite code taken at insert, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		return team, nil
	}
	return nil, ErrInviteCodesExhausted
}

// Login verifies a participant's credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// AdminLogin checks the configured administrator pair.
func (s *AuthService) AdminLogin(email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(s.admin.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !emailOK || !passwordOK || s.admin.Password == "" {
		return ErrInvalidCredentials
	}
	return nil
}
