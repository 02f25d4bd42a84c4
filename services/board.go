package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hackportal/models"
)

// BoardService manages the admin-curated lists: sponsors, live updates and
// notifications.
type BoardService struct {
	db *gorm.DB
}

func NewBoardService(db *gorm.DB) *BoardService {
	return &BoardService{db: db}
}

// SeedSponsors inserts the default sponsors when the table is empty. Safe to
// call on every read; concurrent seeders collide on the unique name and skip.
func (s *BoardService) SeedSponsors(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Sponsor{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count sponsors")
	}
	if count > 0 {
		return nil
	}

	defaults := models.DefaultSponsors()
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&defaults).Error; err != nil {
		return errors.Wrap(err, "seed sponsors")
	}
	return nil
}

// Sponsors seeds if needed and lists sponsors in insertion order.
func (s *BoardService) Sponsors(ctx context.Context) ([]models.Sponsor, error) {
	if err := s.SeedSponsors(ctx); err != nil {
		return nil, err
	}
	var sponsors []models.Sponsor
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&sponsors).Error; err != nil {
		return nil, errors.Wrap(err, "list sponsors")
	}
	return sponsors, nil
}

// AddUpdate posts a live update. Blank text is ignored and yields nil.
func (s *BoardService) AddUpdate(ctx context.Context, text string) (*models.LiveUpdate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	update := models.LiveUpdate{Text: text}
	if err := s.db.WithContext(ctx).Create(&update).Error; err != nil {
		return nil, errors.Wrap(err, "add live update")
	}
	return &update, nil
}

// AddNotification posts a notification. Blank text is ignored and yields nil.
func (s *BoardService) AddNotification(ctx context.Context, text string) (*models.Notification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	notification := models.Notification{Text: text}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, errors.Wrap(err, "add notification")
	}
	return &notification, nil
}

func (s *BoardService) DeleteUpdate(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.LiveUpdate{}, id)
}

func (s *BoardService) DeleteNotification(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Notification{}, id)
}

func (s *BoardService) deleteByID(ctx context.Context, model interface{}, id uint) error {
	res := s.db.WithContext(ctx).Unscoped().Delete(model, id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete %T %d", model, id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Updates lists live updates, newest first.
func (s *BoardService) Updates(ctx context.Context) ([]models.LiveUpdate, error) {
	var updates []models.LiveUpdate
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&updates).Error; err != nil {
		return nil, errors.Wrap(err, "list live updates")
	}
	return updates, nil
}

// Notifications lists notifications, newest first.
func (s *BoardService) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	return notifications, nil
}
