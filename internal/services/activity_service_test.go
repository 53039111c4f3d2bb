package services

import (
	"context"
	"testing"
	"time"

	"wayfinder/internal/models"
)

func TestActivityCreate_DefaultBotName(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, nil)

	activity, err := svc.Create(context.Background(), &ActivityRequest{Title: "Tour A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if activity.BotName != "Activity Bot" {
		t.Fatalf("bot name = %q, want default", activity.BotName)
	}
}

func TestActivityList_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, &ActivityRequest{Title: "Older"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Force distinct creation times without sleeping.
	db.Model(first).Update("created_at", first.CreatedAt.Add(-time.Second))

	if _, err := svc.Create(ctx, &ActivityRequest{Title: "Newer"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	activities, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(activities) != 2 || activities[0].Title != "Newer" {
		t.Fatalf("unexpected order: %#v", activities)
	}
}

func TestActivityDelete_CascadesToKeywordsContentConversations(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, nil)
	chat := NewChatService(db, nil)
	ctx := context.Background()

	doomed := seedActivity(t, db, "Doomed")
	kept := seedActivity(t, db, "Kept")
	doomedKW := seedKeyword(t, db, doomed.ID, "map")
	keptKW := seedKeyword(t, db, kept.ID, "bus")
	user := seedUser(t, db, "alice")

	if err := db.Create(&models.Content{KeywordID: doomedKW.ID, ContentType: models.ContentTypeText, ContentText: "x"}).Error; err != nil {
		t.Fatalf("seed content: %v", err)
	}
	if err := db.Create(&models.Content{KeywordID: keptKW.ID, ContentType: models.ContentTypeText, ContentText: "y"}).Error; err != nil {
		t.Fatalf("seed content: %v", err)
	}
	if err := chat.LogTurn(ctx, user.ID, doomed.ID, doomedKW.ID, "map", "x"); err != nil {
		t.Fatalf("log turn: %v", err)
	}
	if err := chat.LogTurn(ctx, user.ID, kept.ID, keptKW.ID, "bus", "y"); err != nil {
		t.Fatalf("log turn: %v", err)
	}

	if err := svc.Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var keywords, content, conversations, activities int64
	db.Model(&models.Keyword{}).Count(&keywords)
	db.Model(&models.Content{}).Count(&content)
	db.Model(&models.Conversation{}).Count(&conversations)
	db.Model(&models.Activity{}).Count(&activities)

	if keywords != 1 || content != 1 || conversations != 2 || activities != 1 {
		t.Fatalf("counts after cascade: keywords=%d content=%d conversations=%d activities=%d",
			keywords, content, conversations, activities)
	}

	var remaining models.Keyword
	if err := db.First(&remaining).Error; err != nil {
		t.Fatalf("load remaining keyword: %v", err)
	}
	if remaining.ActivityID != kept.ID {
		t.Fatalf("surviving keyword belongs to activity %d, want %d", remaining.ActivityID, kept.ID)
	}
}
