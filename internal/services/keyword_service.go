package services

import (
	"context"
	"errors"
	"fmt"

	"wayfinder/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrKeywordExists = errors.New("keyword already exists for this activity")

// KeywordService manages the trigger phrases attached to activities.
type KeywordService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewKeywordService(db *gorm.DB, logger *logrus.Logger) *KeywordService {
	if logger == nil {
		logger = logrus.New()
	}
	return &KeywordService{db: db, logger: logger}
}

// ListByActivity returns an activity's keywords in creation order.
func (s *KeywordService) ListByActivity(ctx context.Context, activityID uint) ([]models.Keyword, error) {
	var keywords []models.Keyword
	err := s.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("id ASC").
		Find(&keywords).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	return keywords, nil
}

// Get returns a keyword by id.
func (s *KeywordService) Get(ctx context.Context, keywordID uint) (*models.Keyword, error) {
	var keyword models.Keyword
	if err := s.db.WithContext(ctx).First(&keyword, keywordID).Error; err != nil {
		return nil, fmt.Errorf("keyword not found: %w", err)
	}
	return &keyword, nil
}

// Create adds a trigger phrase to an activity. The phrase must be unique
// within that activity.
func (s *KeywordService) Create(ctx context.Context, activityID uint, text string) (*models.Keyword, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Keyword{}).
		Where("activity_id = ? AND keyword = ?", activityID, text).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check keyword: %w", err)
	}
	if count > 0 {
		return nil, ErrKeywordExists
	}

	keyword := &models.Keyword{ActivityID: activityID, Keyword: text}
	if err := s.db.WithContext(ctx).Create(keyword).Error; err != nil {
		return nil, fmt.Errorf("failed to create keyword: %w", err)
	}
	s.logger.Infof("Created keyword %d (%s) for activity %d", keyword.ID, text, activityID)
	return keyword, nil
}

// Update changes a keyword's trigger text.
func (s *KeywordService) Update(ctx context.Context, keywordID uint, text string) (*models.Keyword, error) {
	keyword, err := s.Get(ctx, keywordID)
	if err != nil {
		return nil, err
	}
	keyword.Keyword = text
	if err := s.db.WithContext(ctx).Save(keyword).Error; err != nil {
		return nil, fmt.Errorf("failed to update keyword: %w", err)
	}
	s.logger.Infof("Updated keyword %d", keywordID)
	return keyword, nil
}

// Delete removes a keyword, its content, and the conversations that
// reference it, in one transaction. Returns the owning activity id so
// callers can redirect back to the keyword list.
func (s *KeywordService) Delete(ctx context.Context, keywordID uint) (uint, error) {
	keyword, err := s.Get(ctx, keywordID)
	if err != nil {
		return 0, err
	}
	activityID := keyword.ActivityID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("keyword_id = ?", keywordID).Delete(&models.Content{}).Error; err != nil {
			return err
		}
		if err := tx.Where("keyword_id = ?", keywordID).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		return tx.Delete(keyword).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete keyword: %w", err)
	}

	s.logger.Infof("Deleted keyword %d from activity %d", keywordID, activityID)
	return activityID, nil
}
