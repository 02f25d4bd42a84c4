package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TopSubmissionsLimit is how many submissions the landing page previews.
const TopSubmissionsLimit = 3

// SubmissionEntry is a submission as shown on the landing page and the
// leaderboard. Position follows submission order, not a judged score.
type SubmissionEntry struct {
	Position    int       `json:"position" gorm:"-"`
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GithubURL   string    `json:"github"`
	VideoURL    string    `json:"video"`
	UserID      uint      `json:"user_id"`
	UserName    string    `json:"user_name"`
	TeamName    string    `json:"team_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type Landing struct {
	TotalUsers       int64             `json:"total_users"`
	TotalTeams       int64             `json:"total_teams"`
	TotalSubmissions int64             `json:"total_submissions"`
	TopSubmissions   []SubmissionEntry `json:"top_submissions"`
}

type StatsService struct {
	db          *gorm.DB
	users       *UserService
	teams       *TeamService
	submissions *SubmissionService
}

func NewStatsService(db *gorm.DB, users *UserService, teams *TeamService, submissions *SubmissionService) *StatsService {
	return &StatsService{db: db, users: users, teams: teams, submissions: submissions}
}

// Landing gathers the public snapshot: totals plus the earliest submissions.
func (s *StatsService) Landing(ctx context.Context) (*Landing, error) {
	var (
		landing Landing
		err     error
	)
	if landing.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if landing.TotalTeams, err = s.teams.Count(ctx); err != nil {
		return nil, err
	}
	if landing.TotalSubmissions, err = s.submissions.Count(ctx); err != nil {
		return nil, err
	}
	if landing.TopSubmissions, err = s.entries(ctx, TopSubmissionsLimit); err != nil {
		return nil, err
	}
	return &landing, nil
}

// Leaderboard lists every submission, earliest first.
func (s *StatsService) Leaderboard(ctx context.Context) ([]SubmissionEntry, error) {
	return s.entries(ctx, 0)
}

func (s *StatsService) entries(ctx context.Context, limit int) ([]SubmissionEntry, error) {
	query := s.db.WithContext(ctx).Table("submissions").
		Select(`submissions.id, submissions.title, submissions.description,
			submissions.github_url, submissions.video_url, submissions.user_id, submissions.created_at,
			COALESCE(users.name, '') AS user_name, COALESCE(teams.name, '') AS team_name`).
		Joins("LEFT JOIN users ON users.id = submissions.user_id").
		Joins("LEFT JOIN teams ON teams.id = users.team_id").
		Where("submissions.deleted_at IS NULL").
		Order("submissions.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	entries := []SubmissionEntry{}
	if err := query.Scan(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "list submissions")
	}
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries, nil
}
