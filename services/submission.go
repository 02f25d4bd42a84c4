package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hackportal/models"
)

type SubmissionInput struct {
	Title       string
	Description string
	GithubURL   string
	VideoURL    string
}

type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

// Upsert stores the user's submission, overwriting the previous one in place.
func (s *SubmissionService) Upsert(ctx context.Context, userID uint, in SubmissionInput) (*models.Submission, error) {
	submission := models.Submission{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		GithubURL:   strings.TrimSpace(in.GithubURL),
		VideoURL:    strings.TrimSpace(in.VideoURL),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "github_url", "video_url", "updated_at"}),
	}).Create(&submission).Error
	if err != nil {
		return nil, errors.Wrapf(err, "save submission for user %d", userID)
	}

	saved, err := s.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, errors.Errorf("submission for user %d vanished after save", userID)
	}
	return saved, nil
}

// FindByUser returns nil, nil when the user has not submitted yet.
func (s *SubmissionService) FindByUser(ctx context.Context, userID uint) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&submission).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find submission for user %d", userID)
	}
	return &submission, nil
}

func (s *SubmissionService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Submission{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count submissions")
	}
	return count, nil
}
