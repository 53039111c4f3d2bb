package handlers

import (
	"fmt"
	"net/http"

	"wayfinder/internal/middleware"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminActivityHandler serves activity management in the back office.
type AdminActivityHandler struct {
	activities *services.ActivityService
	logger     *logrus.Logger
}

func NewAdminActivityHandler(activities *services.ActivityService, logger *logrus.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{activities: activities, logger: logger}
}

// NewPage returns the creation form payload.
func (h *AdminActivityHandler) NewPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "create_activity",
		"notices": middleware.TakeFlashes(c),
	})
}

// Create adds an activity from the posted form.
func (h *AdminActivityHandler) Create(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		redirectWithFlash(c, "Title is required", "/admin/activity/new")
		return
	}
	req := &services.ActivityRequest{
		Title:       title,
		Description: c.PostForm("description"),
		BotName:     c.PostForm("bot_name"),
	}
	if _, err := h.activities.Create(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create activity", Message: err.Error()})
		return
	}
	redirectWithFlash(c, "Activity created successfully", "/admin/dashboard")
}

// EditPage returns the activity being edited.
func (h *AdminActivityHandler) EditPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	activity, err := h.activities.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activity": activity,
		"notices":  middleware.TakeFlashes(c),
	})
}

// Edit applies the posted form to an activity.
func (h *AdminActivityHandler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	title := c.PostForm("title")
	if title == "" {
		redirectWithFlash(c, "Title is required", fmt.Sprintf("/admin/activity/%d/edit", id))
		return
	}
	req := &services.ActivityRequest{
		Title:       title,
		Description: c.PostForm("description"),
		BotName:     c.PostForm("bot_name"),
	}
	if _, err := h.activities.Update(c.Request.Context(), id, req); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found", Message: err.Error()})
		return
	}
	redirectWithFlash(c, "Activity updated successfully", "/admin/dashboard")
}

// Delete removes an activity and cascades to its keywords, content, and
// conversations.
func (h *AdminActivityHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.activities.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found", Message: err.Error()})
		return
	}
	redirectWithFlash(c, "Activity deleted successfully", "/admin/dashboard")
}

// RegisterAdminActivityRoutes wires activity management behind the admin guard.
func RegisterAdminActivityRoutes(r *gin.Engine, handler *AdminActivityHandler) {
	admin := r.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/activity/new", handler.NewPage)
		admin.POST("/activity/new", handler.Create)
		admin.GET("/activity/:id/edit", handler.EditPage)
		admin.POST("/activity/:id/edit", handler.Edit)
		admin.POST("/activity/:id/delete", handler.Delete)
	}
}
