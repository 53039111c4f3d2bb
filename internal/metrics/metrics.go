package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ChatTurnsTotal counts handled chat turns by keyword resolution outcome
// (exact, partial, first, none).
var ChatTurnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wayfinder_chat_turns_total",
		Help: "Chat turns handled, labeled by keyword match outcome.",
	},
	[]string{"match"},
)

// UploadsTotal counts content photo uploads by result (stored, rejected).
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wayfinder_content_uploads_total",
		Help: "Photo uploads processed, labeled by result.",
	},
	[]string{"result"},
)

// Handler exposes the default prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
