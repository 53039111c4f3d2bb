package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"wayfinder/internal/middleware"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ChatHandler serves the public activity listing and the per-activity chat.
type ChatHandler struct {
	activities *services.ActivityService
	chat       *services.ChatService
	logger     *logrus.Logger
}

func NewChatHandler(activities *services.ActivityService, chat *services.ChatService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{activities: activities, chat: chat, logger: logger}
}

// ListActivities is the public listing, newest first.
func (h *ChatHandler) ListActivities(c *gin.Context) {
	activities, err := h.activities.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list activities", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"notices":    middleware.TakeFlashes(c),
	})
}

// ActivityDetail forwards to the chat page, matching the original site.
func (h *ChatHandler) ActivityDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/activity/%d/chat", id))
}

// ChatPage returns the activity and the caller's chat replay, oldest first.
func (h *ChatHandler) ChatPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := middleware.CurrentIdentity(c)

	activity, err := h.activities.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found", Message: err.Error()})
		return
	}
	conversations, err := h.chat.ActivityHistory(c.Request.Context(), identity.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load history", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity":      activity,
		"conversations": conversations,
		"notices":       middleware.TakeFlashes(c),
	})
}

// PostMessage drives one chat turn and redirects back to the chat page.
// A whitespace-only message is ignored.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := middleware.CurrentIdentity(c)
	chatURL := fmt.Sprintf("/activity/%d/chat", id)

	if _, err := h.activities.Get(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found", Message: err.Error()})
		return
	}

	message := c.PostForm("message")
	if strings.TrimSpace(message) == "" {
		c.Redirect(http.StatusFound, chatURL)
		return
	}

	if _, err := h.chat.HandleMessage(c.Request.Context(), identity.UserID, id, message); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to handle message", Message: err.Error()})
		return
	}
	c.Redirect(http.StatusFound, chatURL)
}

// RegisterChatRoutes wires the public activity routes and the chat flow.
func RegisterChatRoutes(r *gin.Engine, handler *ChatHandler) {
	r.GET("/activities", handler.ListActivities)
	r.GET("/activity/:id", handler.ActivityDetail)
	r.GET("/activity/:id/chat", middleware.RequireUser(), handler.ChatPage)
	r.POST("/activity/:id/chat", middleware.RequireUser(), handler.PostMessage)
}
