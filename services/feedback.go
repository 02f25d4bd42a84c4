package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"hackportal/models"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// Add appends a feedback entry for user. Entries are never updated.
func (s *FeedbackService) Add(ctx context.Context, user *models.User, text, rating string) (*models.Feedback, error) {
	if user == nil {
		return nil, ErrAuthRequired
	}

	feedback := models.Feedback{
		Text:   strings.TrimSpace(text),
		Rating: strings.TrimSpace(rating),
		UserID: &user.ID,
	}
	if err := s.db.WithContext(ctx).Create(&feedback).Error; err != nil {
		return nil, errors.Wrapf(err, "save feedback for user %d", user.ID)
	}
	return &feedback, nil
}

// ListByUser returns the user's own entries, newest first.
func (s *FeedbackService) ListByUser(ctx context.Context, userID uint) ([]models.Feedback, error) {
	var entries []models.Feedback
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&entries).Error; err != nil {
		return nil, errors.Wrapf(err, "list feedback for user %d", userID)
	}
	return entries, nil
}
