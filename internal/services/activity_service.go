package services

import (
	"context"
	"fmt"

	"wayfinder/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ActivityService manages the admin-authored club activities.
type ActivityService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewActivityService(db *gorm.DB, logger *logrus.Logger) *ActivityService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ActivityService{db: db, logger: logger}
}

// ActivityRequest carries the editable fields of an activity.
type ActivityRequest struct {
	Title       string
	Description string
	BotName     string
}

// List returns all activities, newest first.
func (s *ActivityService) List(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Get returns an activity by id.
func (s *ActivityService) Get(ctx context.Context, activityID uint) (*models.Activity, error) {
	var activity models.Activity
	if err := s.db.WithContext(ctx).First(&activity, activityID).Error; err != nil {
		return nil, fmt.Errorf("activity not found: %w", err)
	}
	return &activity, nil
}

// Create adds an activity. An empty bot name falls back to the model default.
func (s *ActivityService) Create(ctx context.Context, req *ActivityRequest) (*models.Activity, error) {
	activity := &models.Activity{
		Title:       req.Title,
		Description: req.Description,
		BotName:     req.BotName,
	}
	if activity.BotName == "" {
		activity.BotName = "Activity Bot"
	}
	if err := s.db.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	s.logger.Infof("Created activity %d (%s)", activity.ID, activity.Title)
	return activity, nil
}

// Update edits an activity's title, description, and bot name.
func (s *ActivityService) Update(ctx context.Context, activityID uint, req *ActivityRequest) (*models.Activity, error) {
	activity, err := s.Get(ctx, activityID)
	if err != nil {
		return nil, err
	}
	activity.Title = req.Title
	activity.Description = req.Description
	activity.BotName = req.BotName
	if activity.BotName == "" {
		activity.BotName = "Activity Bot"
	}
	if err := s.db.WithContext(ctx).Save(activity).Error; err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	s.logger.Infof("Updated activity %d", activityID)
	return activity, nil
}

// Delete removes an activity and everything hanging off it: content under
// its keywords, conversations referencing it, and the keywords themselves,
// all in one transaction.
func (s *ActivityService) Delete(ctx context.Context, activityID uint) error {
	activity, err := s.Get(ctx, activityID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var keywordIDs []uint
		if err := tx.Model(&models.Keyword{}).Where("activity_id = ?", activityID).Pluck("id", &keywordIDs).Error; err != nil {
			return err
		}
		if len(keywordIDs) > 0 {
			if err := tx.Where("keyword_id IN ?", keywordIDs).Delete(&models.Content{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("activity_id = ?", activityID).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", activityID).Delete(&models.Keyword{}).Error; err != nil {
			return err
		}
		return tx.Delete(activity).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	s.logger.Infof("Deleted activity %d with its keywords, content, and conversations", activityID)
	return nil
}
