package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfinder/internal/config"
	"wayfinder/internal/handlers"
	"wayfinder/internal/metrics"
	"wayfinder/internal/middleware"
	"wayfinder/internal/models"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenDatabase connects to the configured store. The original deployment
// runs on a local sqlite file; postgres is available for shared setups.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.Port,
		)
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite", "":
		return gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Migrate creates or updates the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// BuildRouter wires services, handlers, and middleware into a gin engine.
func BuildRouter(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *gin.Engine {
	userService := services.NewUserService(db, logger)
	adminService := services.NewAdminService(db, logger)
	activityService := services.NewActivityService(db, logger)
	keywordService := services.NewKeywordService(db, logger)
	contentService := services.NewContentService(db, cfg.Upload, logger)
	chatService := services.NewChatService(db, logger)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.Sessions(cfg))
	r.MaxMultipartMemory = cfg.Upload.MaxFileSize

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	handlers.RegisterUserRoutes(r, handlers.NewUserHandler(userService, chatService, logger))
	handlers.RegisterChatRoutes(r, handlers.NewChatHandler(activityService, chatService, logger))
	handlers.RegisterAdminAuthRoutes(r, handlers.NewAdminAuthHandler(adminService, activityService, logger))
	handlers.RegisterAdminActivityRoutes(r, handlers.NewAdminActivityHandler(activityService, logger))
	handlers.RegisterAdminKeywordRoutes(r, handlers.NewAdminKeywordHandler(activityService, keywordService, logger))
	handlers.RegisterAdminContentRoutes(r, handlers.NewAdminContentHandler(keywordService, contentService, logger))
	handlers.RegisterAdminAccountRoutes(r, handlers.NewAdminAccountHandler(adminService, logger))

	return r
}

// Run starts the full application: database, migration, root-admin
// bootstrap, HTTP server with graceful shutdown.
func Run(cfg *config.Config) error {
	logger := logrus.StandardLogger()

	db, err := OpenDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	adminService := services.NewAdminService(db, logger)
	if err := adminService.Bootstrap(context.Background(), cfg.Bootstrap.RootAdminUsername, cfg.Bootstrap.RootAdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap root admin: %w", err)
	}

	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: BuildRouter(cfg, db, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}
