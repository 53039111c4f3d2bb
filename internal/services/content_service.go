package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"wayfinder/internal/config"
	"wayfinder/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmptyContent    = errors.New("content text is required")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
)

// ContentService manages the reply fragments attached to keywords. Photo
// uploads are written to the configured images directory before the owning
// row is committed, so a stored file without a row (or the reverse) cannot
// survive a failure.
type ContentService struct {
	db     *gorm.DB
	upload config.UploadConfig
	logger *logrus.Logger
}

func NewContentService(db *gorm.DB, upload config.UploadConfig, logger *logrus.Logger) *ContentService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ContentService{db: db, upload: upload, logger: logger}
}

// ListByKeyword returns a keyword's content rows in creation order.
func (s *ContentService) ListByKeyword(ctx context.Context, keywordID uint) ([]models.Content, error) {
	var items []models.Content
	err := s.db.WithContext(ctx).
		Where("keyword_id = ?", keywordID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	return items, nil
}

// CreateText adds a text fragment. Only the text payload field is populated.
func (s *ContentService) CreateText(ctx context.Context, keywordID uint, text string) (*models.Content, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyContent
	}
	item := &models.Content{
		KeywordID:   keywordID,
		ContentType: models.ContentTypeText,
		ContentText: text,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}
	s.logger.Infof("Created text content %d for keyword %d", item.ID, keywordID)
	return item, nil
}

// CreatePhoto validates and stores an uploaded image, then adds a photo
// fragment referencing it. Only the photo payload field is populated. The
// stored file is removed again if the row cannot be committed.
func (s *ContentService) CreatePhoto(ctx context.Context, keywordID uint, filename string, size int64, src io.Reader) (*models.Content, error) {
	if !s.AllowedFile(filename) {
		return nil, ErrInvalidFileType
	}
	if s.upload.MaxFileSize > 0 && size > s.upload.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	if err := os.MkdirAll(s.upload.ImageDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	stored := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(filename))
	fullPath := filepath.Join(s.upload.ImageDir, stored)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}
	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to store photo: %w", errors.Join(copyErr, closeErr))
	}

	item := &models.Content{
		KeywordID:        keywordID,
		ContentType:      models.ContentTypePhoto,
		ContentPhotoPath: "images/" + stored,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	s.logger.Infof("Created photo content %d for keyword %d (%s)", item.ID, keywordID, item.ContentPhotoPath)
	return item, nil
}

// AllowedFile reports whether the filename carries a permitted extension.
func (s *ContentService) AllowedFile(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range s.upload.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
