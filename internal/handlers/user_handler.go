package handlers

import (
	"errors"
	"net/http"

	"wayfinder/internal/middleware"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler serves the visitor identity lifecycle and the profile page.
type UserHandler struct {
	users  *services.UserService
	chat   *services.ChatService
	logger *logrus.Logger
}

func NewUserHandler(users *services.UserService, chat *services.ChatService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, chat: chat, logger: logger}
}

// Index is the public landing page.
func (h *UserHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "index",
		"notices": middleware.TakeFlashes(c),
	})
}

// LoginPage returns the login form payload.
func (h *UserHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "login",
		"notices": middleware.TakeFlashes(c),
	})
}

// Login authenticates a visitor and opens their session.
func (h *UserHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			redirectWithFlash(c, "Invalid username or password", "/login")
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed", Message: err.Error()})
		return
	}

	middleware.SetUser(c, user.ID)
	c.Redirect(http.StatusFound, "/")
}

// RegisterPage returns the registration form payload.
func (h *UserHandler) RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "register",
		"notices": middleware.TakeFlashes(c),
	})
}

// Register creates a visitor account.
func (h *UserHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	email := c.PostForm("email")

	if username == "" || password == "" || email == "" {
		redirectWithFlash(c, "All fields are required", "/register")
		return
	}

	_, err := h.users.Register(c.Request.Context(), username, email, password)
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		redirectWithFlash(c, "Username already exists", "/register")
	case errors.Is(err, services.ErrEmailTaken):
		redirectWithFlash(c, "Email already exists", "/register")
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Registration failed", Message: err.Error()})
	default:
		redirectWithFlash(c, "Registration successful", "/login")
	}
}

// Logout ends the visitor session.
func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearUser(c)
	c.Redirect(http.StatusFound, "/")
}

// Profile returns the visitor's conversation history grouped by activity,
// most recent exchange first.
func (h *UserHandler) Profile(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	user, err := h.users.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found", Message: err.Error()})
		return
	}
	history, err := h.chat.ProfileHistory(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load history", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"conversations": history,
		"notices":       middleware.TakeFlashes(c),
	})
}

// RegisterUserRoutes wires the public and visitor-facing routes.
func RegisterUserRoutes(r *gin.Engine, handler *UserHandler) {
	r.GET("/", handler.Index)
	r.GET("/login", handler.LoginPage)
	r.POST("/login", handler.Login)
	r.GET("/register", handler.RegisterPage)
	r.POST("/register", handler.Register)
	r.GET("/logout", handler.Logout)
	r.GET("/profile", middleware.RequireUser(), handler.Profile)
}
