package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"wayfinder/internal/middleware"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminKeywordHandler serves keyword management in the back office.
type AdminKeywordHandler struct {
	activities *services.ActivityService
	keywords   *services.KeywordService
	logger     *logrus.Logger
}

func NewAdminKeywordHandler(activities *services.ActivityService, keywords *services.KeywordService, logger *logrus.Logger) *AdminKeywordHandler {
	return &AdminKeywordHandler{activities: activities, keywords: keywords, logger: logger}
}

// List returns an activity's keywords.
func (h *AdminKeywordHandler) List(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	activity, err := h.activities.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found", Message: err.Error()})
		return
	}
	keywords, err := h.keywords.ListByActivity(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list keywords", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activity": activity,
		"keywords": keywords,
		"notices":  middleware.TakeFlashes(c),
	})
}

// NewPage returns the creation form payload for an activity.
func (h *AdminKeywordHandler) NewPage(c *gin.Context) {
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

// Create adds a trigger phrase to an activity.
func (h *AdminKeywordHandler) Create(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := h.activities.Get(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found", Message: err.Error()})
		return
	}

	text := c.PostForm("keyword")
	newURL := fmt.Sprintf("/admin/activity/%d/keyword/new", id)
	if text == "" {
		redirectWithFlash(c, "Keyword is required", newURL)
		return
	}

	_, err := h.keywords.Create(c.Request.Context(), id, text)
	switch {
	case errors.Is(err, services.ErrKeywordExists):
		redirectWithFlash(c, "Keyword already exists for this activity", newURL)
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create keyword", Message: err.Error()})
	default:
		redirectWithFlash(c, "Keyword created successfully", fmt.Sprintf("/admin/activity/%d/keywords", id))
	}
}

// EditPage returns the keyword being edited.
func (h *AdminKeywordHandler) EditPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	keyword, err := h.keywords.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Keyword not found", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"keyword": keyword,
		"notices": middleware.TakeFlashes(c),
	})
}

// Edit changes a keyword's trigger text.
func (h *AdminKeywordHandler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	text := c.PostForm("keyword")
	if text == "" {
		redirectWithFlash(c, "Keyword is required", fmt.Sprintf("/admin/keyword/%d/edit", id))
		return
	}
	keyword, err := h.keywords.Update(c.Request.Context(), id, text)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Keyword not found", Message: err.Error()})
		return
	}
	redirectWithFlash(c, "Keyword updated successfully", fmt.Sprintf("/admin/activity/%d/keywords", keyword.ActivityID))
}

// Delete removes a keyword with its content and conversations.
func (h *AdminKeywordHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	activityID, err := h.keywords.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Keyword not found", Message: err.Error()})
		return
	}
	redirectWithFlash(c, "Keyword deleted successfully", fmt.Sprintf("/admin/activity/%d/keywords", activityID))
}

// RegisterAdminKeywordRoutes wires keyword management behind the admin guard.
func RegisterAdminKeywordRoutes(r *gin.Engine, handler *AdminKeywordHandler) {
	admin := r.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/activity/:id/keywords", handler.List)
		admin.GET("/activity/:id/keyword/new", handler.NewPage)
		admin.POST("/activity/:id/keyword/new", handler.Create)
		admin.GET("/keyword/:id/edit", handler.EditPage)
		admin.POST("/keyword/:id/edit", handler.Edit)
		admin.POST("/keyword/:id/delete", handler.Delete)
	}
}
