package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"wayfinder/internal/config"
	"wayfinder/internal/middleware"
	"wayfinder/internal/models"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:handlers_" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	cfg := config.GetDefaultConfig()
	cfg.Upload.ImageDir = t.TempDir()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	userService := services.NewUserService(db, logger)
	adminService := services.NewAdminService(db, logger)
	activityService := services.NewActivityService(db, logger)
	keywordService := services.NewKeywordService(db, logger)
	contentService := services.NewContentService(db, cfg.Upload, logger)
	chatService := services.NewChatService(db, logger)

	r := gin.New()
	r.Use(middleware.Sessions(cfg))

	RegisterUserRoutes(r, NewUserHandler(userService, chatService, logger))
	RegisterChatRoutes(r, NewChatHandler(activityService, chatService, logger))
	RegisterAdminAuthRoutes(r, NewAdminAuthHandler(adminService, activityService, logger))
	RegisterAdminActivityRoutes(r, NewAdminActivityHandler(activityService, logger))
	RegisterAdminKeywordRoutes(r, NewAdminKeywordHandler(activityService, keywordService, logger))
	RegisterAdminContentRoutes(r, NewAdminContentHandler(keywordService, contentService, logger))
	RegisterAdminAccountRoutes(r, NewAdminAccountHandler(adminService, logger))

	return &testApp{router: r, db: db, cfg: cfg}
}

func (a *testApp) get(t *testing.T, path, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) sessionCookie(w *httptest.ResponseRecorder) string {
	cookie := ""
	for _, c := range w.Result().Cookies() {
		if c.Name == a.cfg.Session.CookieName {
			cookie = c.Name + "=" + c.Value
		}
	}
	return cookie
}

// loginUser registers and logs in a visitor, returning the session cookie.
func (a *testApp) loginUser(t *testing.T, username, password string) string {
	t.Helper()
	users := services.NewUserService(a.db, nil)
	if _, err := users.Register(context.Background(), username, username+"@example.com", password); err != nil {
		t.Fatalf("register user: %v", err)
	}
	w := a.postForm(t, "/login", url.Values{"username": {username}, "password": {password}}, "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("login status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	cookie := a.sessionCookie(w)
	if cookie == "" {
		t.Fatal("login did not set a session cookie")
	}
	return cookie
}

// loginAdmin creates and logs in an admin with the given role.
func (a *testApp) loginAdmin(t *testing.T, username, role string) string {
	t.Helper()
	admins := services.NewAdminService(a.db, nil)
	if _, err := admins.Create(context.Background(), username, "secret", role); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	w := a.postForm(t, "/admin/login", url.Values{"username": {username}, "password": {"secret"}}, "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("admin login status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	cookie := a.sessionCookie(w)
	if cookie == "" {
		t.Fatal("admin login did not set a session cookie")
	}
	return cookie
}
