package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"wayfinder/internal/models"
	"wayfinder/internal/services"
)

func TestAdminUsers_RootOnly(t *testing.T) {
	app := newTestApp(t)

	regular := app.loginAdmin(t, "helper", models.RoleRegular)
	w := app.get(t, "/admin/users", regular)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("regular admin status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	root := app.loginAdmin(t, "root", models.RoleRoot)
	w = app.get(t, "/admin/users", root)
	if w.Code != http.StatusOK {
		t.Fatalf("root admin status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminEdit_RootCannotSelfDemote(t *testing.T) {
	app := newTestApp(t)
	cookie := app.loginAdmin(t, "root", models.RoleRoot)

	var self models.Admin
	if err := app.db.Where("username = ?", "root").First(&self).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}

	w := app.postForm(t, "/admin/user/"+itoa(self.ID)+"/edit", url.Values{
		"username": {"root"},
		"role":     {models.RoleRegular},
	}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("status=%d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/user/"+itoa(self.ID)+"/edit" {
		t.Fatalf("location=%q, want bounce to edit form", loc)
	}

	var reloaded models.Admin
	if err := app.db.First(&reloaded, self.ID).Error; err != nil {
		t.Fatalf("reload admin: %v", err)
	}
	if reloaded.Role != models.RoleRoot {
		t.Fatalf("role = %q after refused demotion", reloaded.Role)
	}
}

func TestAdminDelete_SelfDeleteRefused(t *testing.T) {
	app := newTestApp(t)
	cookie := app.loginAdmin(t, "root", models.RoleRoot)

	var self models.Admin
	if err := app.db.Where("username = ?", "root").First(&self).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}

	w := app.postForm(t, "/admin/user/"+itoa(self.ID)+"/delete", nil, cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/users" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	var count int64
	app.db.Model(&models.Admin{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected admin to survive, got %d rows", count)
	}
}

func TestAdminDelete_RootRemovesOther(t *testing.T) {
	app := newTestApp(t)
	cookie := app.loginAdmin(t, "root", models.RoleRoot)

	other, err := services.NewAdminService(app.db, nil).Create(context.Background(), "helper", "secret", models.RoleRegular)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	w := app.postForm(t, "/admin/user/"+itoa(other.ID)+"/delete", nil, cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/users" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	var count int64
	app.db.Model(&models.Admin{}).Where("id = ?", other.ID).Count(&count)
	if count != 0 {
		t.Fatalf("deleted admin still present")
	}
}

func TestAdminProfile_DeleteOwn(t *testing.T) {
	app := newTestApp(t)

	// A root account may not remove itself through the profile page.
	root := app.loginAdmin(t, "root", models.RoleRoot)
	w := app.postForm(t, "/admin/profile/delete", nil, root)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/profile" {
		t.Fatalf("root self-delete status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	// A regular admin can, and the session ends with it.
	regular := app.loginAdmin(t, "helper", models.RoleRegular)
	w = app.postForm(t, "/admin/profile/delete", nil, regular)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("regular self-delete status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	var count int64
	app.db.Model(&models.Admin{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected only the root admin to remain, got %d rows", count)
	}

	cleared := app.sessionCookie(w)
	w = app.get(t, "/admin/profile", cleared)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected guard after self-delete, got status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestAdminProfile_ChangePassword(t *testing.T) {
	app := newTestApp(t)
	cookie := app.loginAdmin(t, "helper", models.RoleRegular)

	w := app.postForm(t, "/admin/profile", url.Values{
		"current_password": {"wrong"},
		"new_password":     {"fresh"},
		"confirm_password": {"fresh"},
	}, cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/profile" {
		t.Fatalf("wrong current password status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	w = app.postForm(t, "/admin/profile", url.Values{
		"current_password": {"secret"},
		"new_password":     {"fresh"},
		"confirm_password": {"fresh"},
	}, cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/profile" {
		t.Fatalf("change password status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	if _, err := services.NewAdminService(app.db, nil).Authenticate(context.Background(), "helper", "fresh"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}
