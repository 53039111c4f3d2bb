package handlers

import (
	"errors"
	"net/http"

	"wayfinder/internal/middleware"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminAuthHandler serves the admin identity lifecycle and the dashboard.
type AdminAuthHandler struct {
	admins     *services.AdminService
	activities *services.ActivityService
	logger     *logrus.Logger
}

func NewAdminAuthHandler(admins *services.AdminService, activities *services.ActivityService, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{admins: admins, activities: activities, logger: logger}
}

// LoginPage returns the admin login form payload.
func (h *AdminAuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "admin_login",
		"notices": middleware.TakeFlashes(c),
	})
}

// Login authenticates an admin and opens the admin session.
func (h *AdminAuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	admin, err := h.admins.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			redirectWithFlash(c, "Invalid admin username or password", "/admin/login")
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed", Message: err.Error()})
		return
	}

	middleware.SetAdmin(c, admin.ID, admin.Role)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout ends the admin session.
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	middleware.ClearAdmin(c)
	c.Redirect(http.StatusFound, "/")
}

// Dashboard lists every activity for the back office.
func (h *AdminAuthHandler) Dashboard(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	activities, err := h.activities.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list activities", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"admin_role": identity.AdminRole,
		"notices":    middleware.TakeFlashes(c),
	})
}

// RegisterAdminAuthRoutes wires the admin login lifecycle and dashboard.
func RegisterAdminAuthRoutes(r *gin.Engine, handler *AdminAuthHandler) {
	r.GET("/admin/login", handler.LoginPage)
	r.POST("/admin/login", handler.Login)
	r.GET("/admin/logout", handler.Logout)
	r.GET("/admin/dashboard", middleware.RequireAdmin(), handler.Dashboard)
}
