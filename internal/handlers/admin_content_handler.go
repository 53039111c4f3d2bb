package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"wayfinder/internal/metrics"
	"wayfinder/internal/middleware"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminContentHandler serves content management, including photo uploads.
type AdminContentHandler struct {
	keywords *services.KeywordService
	content  *services.ContentService
	logger   *logrus.Logger
}

func NewAdminContentHandler(keywords *services.KeywordService, content *services.ContentService, logger *logrus.Logger) *AdminContentHandler {
	return &AdminContentHandler{keywords: keywords, content: content, logger: logger}
}

// List returns a keyword's content rows.
func (h *AdminContentHandler) List(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	keyword, err := h.keywords.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Keyword not found", Message: err.Error()})
		return
	}
	items, err := h.content.ListByKeyword(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list content", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"keyword": keyword,
		"content": items,
		"notices": middleware.TakeFlashes(c),
	})
}

// NewPage returns the creation form payload for a keyword.
func (h *AdminContentHandler) NewPage(c *gin.Context) {
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

// Create adds a content row. Text posts carry a content_text field; photo
// posts carry a multipart file that must pass the extension and size checks
// before anything is written.
func (h *AdminContentHandler) Create(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := h.keywords.Get(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Keyword not found", Message: err.Error()})
		return
	}

	newURL := fmt.Sprintf("/admin/keyword/%d/content/new", id)
	listURL := fmt.Sprintf("/admin/keyword/%d/content", id)

	switch c.PostForm("content_type") {
	case "text":
		_, err := h.content.CreateText(c.Request.Context(), id, c.PostForm("content_text"))
		if errors.Is(err, services.ErrEmptyContent) {
			redirectWithFlash(c, "Content text is required", newURL)
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create content", Message: err.Error()})
			return
		}

	case "photo":
		file, err := c.FormFile("photo")
		if err != nil || file.Filename == "" {
			redirectWithFlash(c, "Please select a photo file", newURL)
			return
		}
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read upload", Message: err.Error()})
			return
		}
		defer src.Close()

		_, err = h.content.CreatePhoto(c.Request.Context(), id, file.Filename, file.Size, src)
		switch {
		case errors.Is(err, services.ErrInvalidFileType):
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			redirectWithFlash(c, "Invalid file type. Only PNG, JPG, JPEG, GIF files allowed.", newURL)
			return
		case errors.Is(err, services.ErrFileTooLarge):
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			redirectWithFlash(c, "File is too large", newURL)
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store photo", Message: err.Error()})
			return
		}
		metrics.UploadsTotal.WithLabelValues("stored").Inc()

	default:
		redirectWithFlash(c, "Invalid content type or missing content", newURL)
		return
	}

	redirectWithFlash(c, "Content created successfully", listURL)
}

// RegisterAdminContentRoutes wires content management behind the admin guard.
func RegisterAdminContentRoutes(r *gin.Engine, handler *AdminContentHandler) {
	admin := r.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/keyword/:id/content", handler.List)
		admin.GET("/keyword/:id/content/new", handler.NewPage)
		admin.POST("/keyword/:id/content/new", handler.Create)
	}
}
