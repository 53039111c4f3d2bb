package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"wayfinder/internal/models"
)

func TestChat_RequiresLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, "/activity/1/chat", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status=%d, want redirect", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("location=%q, want /login", loc)
	}
}

func TestActivityDetail_RedirectsToChat(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, "/activity/7", "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/activity/7/chat" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestActivities_PublicListing(t *testing.T) {
	app := newTestApp(t)
	if err := app.db.Create(&models.Activity{Title: "Tour A"}).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}

	w := app.get(t, "/activities", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Tour A") {
		t.Fatalf("listing missing activity: %s", w.Body.String())
	}
}

// Full flow from the admin back office to a chat reply: activity, keyword,
// text content, then a visitor message matching the keyword.
func TestChat_EndToEnd(t *testing.T) {
	app := newTestApp(t)
	adminCookie := app.loginAdmin(t, "root", models.RoleRoot)

	w := app.postForm(t, "/admin/activity/new", url.Values{
		"title":       {"Tour A"},
		"description": {"campus tour"},
		"bot_name":    {"Tour Bot"},
	}, adminCookie)
	if w.Code != http.StatusFound {
		t.Fatalf("create activity status=%d", w.Code)
	}
	var activity models.Activity
	if err := app.db.First(&activity).Error; err != nil {
		t.Fatalf("load activity: %v", err)
	}

	w = app.postForm(t, "/admin/activity/"+itoa(activity.ID)+"/keyword/new", url.Values{"keyword": {"map"}}, adminCookie)
	if w.Code != http.StatusFound {
		t.Fatalf("create keyword status=%d body=%s", w.Code, w.Body.String())
	}
	var keyword models.Keyword
	if err := app.db.First(&keyword).Error; err != nil {
		t.Fatalf("load keyword: %v", err)
	}

	w = app.postForm(t, "/admin/keyword/"+itoa(keyword.ID)+"/content/new", url.Values{
		"content_type": {"text"},
		"content_text": {"Here is the map"},
	}, adminCookie)
	if w.Code != http.StatusFound {
		t.Fatalf("create content status=%d body=%s", w.Code, w.Body.String())
	}

	userCookie := app.loginUser(t, "alice", "secret")
	chatURL := "/activity/" + itoa(activity.ID) + "/chat"

	w = app.postForm(t, chatURL, url.Values{"message": {"map"}}, userCookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != chatURL {
		t.Fatalf("chat post status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	var rows []models.Conversation
	if err := app.db.Order("id ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load conversations: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 conversation rows, got %d", len(rows))
	}
	if rows[0].Message != "map" || rows[0].SenderType != models.SenderUser {
		t.Fatalf("unexpected user row: %#v", rows[0])
	}
	if rows[1].Message != "Here is the map" || rows[1].SenderType != models.SenderBot {
		t.Fatalf("unexpected bot row: %#v", rows[1])
	}

	w = app.get(t, chatURL, userCookie)
	if w.Code != http.StatusOK {
		t.Fatalf("chat page status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Here is the map") {
		t.Fatalf("chat page missing bot reply: %s", w.Body.String())
	}
}

func TestChat_EmptyMessageIsIgnored(t *testing.T) {
	app := newTestApp(t)
	if err := app.db.Create(&models.Activity{Title: "Tour A"}).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	cookie := app.loginUser(t, "alice", "secret")

	w := app.postForm(t, "/activity/1/chat", url.Values{"message": {"   "}}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("status=%d", w.Code)
	}

	var count int64
	app.db.Model(&models.Conversation{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no conversation rows, got %d", count)
	}
}

func TestChat_UnknownActivityIsNotFound(t *testing.T) {
	app := newTestApp(t)
	cookie := app.loginUser(t, "alice", "secret")

	w := app.get(t, "/activity/99/chat", cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}
