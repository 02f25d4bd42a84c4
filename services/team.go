package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hackportal/models"
)

// MaxInviteCodeAttempts bounds how many codes are drawn before giving up.
// With 36^6 codes a streak this long only happens if something is broken.
const MaxInviteCodeAttempts = 10

// TeamRoster is a team together with its members.
type TeamRoster struct {
	models.Team
	Members []models.User `json:"members"`
}

type TeamService struct {
	db      *gorm.DB
	log     *logrus.Entry
	newCode func() (string, error)
}

func NewTeamService(db *gorm.DB, log *logrus.Entry) *TeamService {
	return &TeamService{db: db, log: log, newCode: RandomInviteCode}
}

// RandomInviteCode draws InviteCodeLength symbols uniformly from the invite
// code alphabet.
func RandomInviteCode() (string, error) {
	alphabet := models.InviteCodeAlphabet
	max := big.NewInt(int64(len(alphabet)))

	code := make([]byte, models.InviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}

// NewInviteCode draws codes until one is not used by any team. tx lets the
// caller run the check inside its own transaction; nil uses the service DB.
func (s *TeamService) NewInviteCode(ctx context.Context, tx *gorm.DB) (string, error) {
	if tx == nil {
		tx = s.db
	}

	for attempt := 1; attempt <= MaxInviteCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", errors.Wrap(err, "draw invite code")
		}

		var count int64
		if err := tx.WithContext(ctx).Unscoped().Model(&models.Team{}).
			Where("invite_code = ?", code).
			Count(&count).Error; err != nil {
			return "", errors.Wrap(err, "check invite code")
		}
		if count == 0 {
			return code, nil
		}
		s.log.WithField("attempt", attempt).Debug("Invite code collision, drawing again")
	}

	s.log.WithField("attempts", MaxInviteCodeAttempts).Error("Invite code generation exhausted its attempts")
	return "", ErrInviteCodesExhausted
}

// FindByInviteCode resolves a join code. Codes are matched case-insensitively.
func (s *TeamService) FindByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !models.ValidInviteCode(code) {
		return nil, ErrInvalidInviteCode
	}

	var team models.Team
	if err := s.db.WithContext(ctx).Where("invite_code = ?", code).First(&team).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidInviteCode
		}
		return nil, errors.Wrap(err, "find team by invite code")
	}
	return &team, nil
}

func (s *TeamService) FindByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find team %d", id)
	}
	return &team, nil
}

func (s *TeamService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Team{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count teams")
	}
	return count, nil
}

// ListWithMembers returns every team in creation order with its members.
func (s *TeamService) ListWithMembers(ctx context.Context) ([]TeamRoster, error) {
	var teams []models.Team
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&teams).Error; err != nil {
		return nil, errors.Wrap(err, "list teams")
	}
	if len(teams) == 0 {
		return []TeamRoster{}, nil
	}

	ids := make([]uint, len(teams))
	for i, team := range teams {
		ids[i] = team.ID
	}

	var members []models.User
	if err := s.db.WithContext(ctx).Where("team_id IN ?", ids).Order("id ASC").Find(&members).Error; err != nil {
		return nil, errors.Wrap(err, "list team members")
	}

	byTeam := make(map[uint][]models.User, len(teams))
	for _, member := range members {
		byTeam[*member.TeamID] = append(byTeam[*member.TeamID], member)
	}

	rosters := make([]TeamRoster, len(teams))
	for i, team := range teams {
		rosters[i] = TeamRoster{Team: team, Members: byTeam[team.ID]}
		if rosters[i].Members == nil {
			rosters[i].Members = []models.User{}
		}
	}
	return rosters, nil
}
