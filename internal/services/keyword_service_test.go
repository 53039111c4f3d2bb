package services

import (
	"context"
	"errors"
	"testing"

	"wayfinder/internal/models"
)

func TestKeywordCreate_DuplicateScopedToActivity(t *testing.T) {
	db := newTestDB(t)
	svc := NewKeywordService(db, nil)
	ctx := context.Background()

	a := seedActivity(t, db, "Tour A")
	b := seedActivity(t, db, "Tour B")

	if _, err := svc.Create(ctx, a.ID, "map"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, a.ID, "map"); !errors.Is(err, ErrKeywordExists) {
		t.Fatalf("expected ErrKeywordExists, got %v", err)
	}
	// Same phrase on a different activity is fine.
	if _, err := svc.Create(ctx, b.ID, "map"); err != nil {
		t.Fatalf("create on other activity: %v", err)
	}
}

func TestKeywordDelete_RemovesContentAndConversations(t *testing.T) {
	db := newTestDB(t)
	svc := NewKeywordService(db, nil)
	chat := NewChatService(db, nil)
	ctx := context.Background()

	activity := seedActivity(t, db, "Tour A")
	keyword := seedKeyword(t, db, activity.ID, "map")
	user := seedUser(t, db, "alice")

	if err := db.Create(&models.Content{KeywordID: keyword.ID, ContentType: models.ContentTypeText, ContentText: "x"}).Error; err != nil {
		t.Fatalf("seed content: %v", err)
	}
	if err := chat.LogTurn(ctx, user.ID, activity.ID, keyword.ID, "map", "x"); err != nil {
		t.Fatalf("log turn: %v", err)
	}

	activityID, err := svc.Delete(ctx, keyword.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if activityID != activity.ID {
		t.Fatalf("returned activity id = %d, want %d", activityID, activity.ID)
	}

	var content, conversations int64
	db.Model(&models.Content{}).Count(&content)
	db.Model(&models.Conversation{}).Count(&conversations)
	if content != 0 || conversations != 0 {
		t.Fatalf("expected clean cascade, got content=%d conversations=%d", content, conversations)
	}
}
