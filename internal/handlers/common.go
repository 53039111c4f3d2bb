package handlers

import (
	"net/http"
	"strconv"

	"wayfinder/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// parseID extracts a positive integer path parameter. On failure it writes a
// not-found response and reports false.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return 0, false
	}
	return uint(id), true
}

// redirectWithFlash queues a one-shot notice and redirects, the way every
// form flow in the site reports its outcome.
func redirectWithFlash(c *gin.Context, message, location string) {
	middleware.Flash(c, message)
	c.Redirect(http.StatusFound, location)
}
