package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wayfinder/internal/metrics"
	"wayfinder/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ApologyReply is the fixed bot reply when nothing useful can be composed.
const ApologyReply = "Sorry, I didn't understand your question."

// MatchKind reports which resolution tier produced a keyword.
type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchPartial MatchKind = "partial"
	MatchFirst   MatchKind = "first"
	MatchNone    MatchKind = "none"
)

// ChatService resolves user messages against an activity's keyword set,
// composes bot replies from the matched keyword's content, and appends the
// exchanged turns to the conversation log.
type ChatService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewChatService(db *gorm.DB, logger *logrus.Logger) *ChatService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ChatService{db: db, logger: logger}
}

// Resolve selects the keyword for a message, case-insensitive, in strict
// priority order: exact trigger match, trigger contained in the message,
// first keyword of the activity. Ties break on lowest id. When the activity
// has no keywords at all the result is nil with MatchNone; callers must not
// substitute a keyword from another activity.
func (s *ChatService) Resolve(ctx context.Context, activityID uint, message string) (*models.Keyword, MatchKind, error) {
	var keywords []models.Keyword
	err := s.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("id ASC").
		Find(&keywords).Error
	if err != nil {
		return nil, MatchNone, fmt.Errorf("failed to list keywords: %w", err)
	}
	if len(keywords) == 0 {
		return nil, MatchNone, nil
	}

	msg := strings.ToLower(strings.TrimSpace(message))

	for i := range keywords {
		if strings.ToLower(keywords[i].Keyword) == msg {
			return &keywords[i], MatchExact, nil
		}
	}
	for i := range keywords {
		if strings.Contains(msg, strings.ToLower(keywords[i].Keyword)) {
			return &keywords[i], MatchPartial, nil
		}
	}
	return &keywords[0], MatchFirst, nil
}

// Compose renders the reply for a resolved keyword by concatenating its
// content rows in creation order, separated by single spaces. Photo rows
// contribute a readable marker instead of the bare path. A nil keyword or an
// empty content set yields the fixed apology.
func (s *ChatService) Compose(ctx context.Context, keyword *models.Keyword) (string, error) {
	if keyword == nil {
		return ApologyReply, nil
	}

	var items []models.Content
	err := s.db.WithContext(ctx).
		Where("keyword_id = ?", keyword.ID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return "", fmt.Errorf("failed to list content: %w", err)
	}

	var fragments []string
	for _, item := range items {
		switch item.ContentType {
		case models.ContentTypeText:
			if item.ContentText != "" {
				fragments = append(fragments, item.ContentText)
			}
		case models.ContentTypePhoto:
			if item.ContentPhotoPath != "" {
				fragments = append(fragments, fmt.Sprintf("[image: %s]", item.ContentPhotoPath))
			}
		}
	}
	if len(fragments) == 0 {
		return ApologyReply, nil
	}
	return strings.Join(fragments, " "), nil
}

// LogTurn appends the user message and the bot reply as two conversation
// rows inside one transaction. The user row is inserted first so both id and
// timestamp ordering reflect user-then-bot; a partial write never survives.
func (s *ChatService) LogTurn(ctx context.Context, userID, activityID, keywordID uint, userMessage, botReply string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userTurn := &models.Conversation{
			UserID:     userID,
			ActivityID: activityID,
			KeywordID:  keywordID,
			Message:    userMessage,
			Timestamp:  time.Now().UTC(),
			SenderType: models.SenderUser,
		}
		if err := tx.Create(userTurn).Error; err != nil {
			return err
		}
		botTurn := &models.Conversation{
			UserID:     userID,
			ActivityID: activityID,
			KeywordID:  keywordID,
			Message:    botReply,
			Timestamp:  time.Now().UTC(),
			SenderType: models.SenderBot,
		}
		return tx.Create(botTurn).Error
	})
	if err != nil {
		return fmt.Errorf("failed to log conversation turn: %w", err)
	}
	return nil
}

// HandleMessage runs one full chat turn: resolve, compose, log. When the
// activity has no keywords the apology is returned without logging, since a
// conversation row requires a real keyword reference.
func (s *ChatService) HandleMessage(ctx context.Context, userID, activityID uint, message string) (string, error) {
	keyword, match, err := s.Resolve(ctx, activityID, message)
	if err != nil {
		return "", err
	}

	reply, err := s.Compose(ctx, keyword)
	if err != nil {
		return "", err
	}

	if keyword != nil {
		if err := s.LogTurn(ctx, userID, activityID, keyword.ID, message, reply); err != nil {
			return "", err
		}
	}

	metrics.ChatTurnsTotal.WithLabelValues(string(match)).Inc()
	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"activity_id": activityID,
		"match":       match,
	}).Debug("Handled chat message")

	return reply, nil
}

// ActivityHistory returns the chat replay for one user/activity pair, oldest
// first.
func (s *ChatService) ActivityHistory(ctx context.Context, userID, activityID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		Order("timestamp ASC, id ASC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	return conversations, nil
}

// ActivityHistoryGroup is one activity's slice of a user's profile history.
type ActivityHistoryGroup struct {
	Activity models.Activity       `json:"activity"`
	Messages []models.Conversation `json:"messages"`
}

// ProfileHistory returns all of a user's conversations newest first, grouped
// by activity in order of most recent exchange.
func (s *ChatService) ProfileHistory(ctx context.Context, userID uint) ([]ActivityHistoryGroup, error) {
	var conversations []models.Conversation
	err := s.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load profile history: %w", err)
	}

	index := make(map[uint]int)
	var groups []ActivityHistoryGroup
	for _, conv := range conversations {
		i, ok := index[conv.ActivityID]
		if !ok {
			i = len(groups)
			index[conv.ActivityID] = i
			groups = append(groups, ActivityHistoryGroup{Activity: conv.Activity})
		}
		conv.Activity = models.Activity{}
		groups[i].Messages = append(groups[i].Messages, conv)
	}
	return groups, nil
}
