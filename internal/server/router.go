// Package server assembles the HTTP routes of the chat UI.
package server

import (
	"net/http"
	"time"

	"github.com/drizzlenote/chatbot/internal/handler"
	"github.com/drizzlenote/chatbot/internal/middleware"
	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusReporter reports the state of a background job.
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

type Deps struct {
	Chat       *handler.ChatHandler
	Export     *handler.ExportHandler
	Sessions   session.Store
	SessionTTL time.Duration
	// ImageDir is served under /img when set.
	ImageDir string
	// Scheduler is nil when the importer is disabled.
	Scheduler StatusReporter
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())
	r.SetHTMLTemplate(handler.Templates())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scheduler status
	r.GET("/scheduler/status", func(c *gin.Context) {
		if d.Scheduler != nil {
			c.JSON(http.StatusOK, d.Scheduler.GetStatus())
		} else {
			c.JSON(http.StatusOK, gin.H{"enabled": false, "message": "Scheduler is disabled"})
		}
	})

	if d.ImageDir != "" {
		r.Static("/img", d.ImageDir)
	}

	ui := r.Group("/", middleware.SessionMiddleware(d.Sessions, d.SessionTTL))
	{
		ui.GET("/", d.Chat.Index)
		ui.POST("/chat", d.Chat.Chat)
		ui.POST("/review", d.Chat.Review)
		ui.POST("/review/reveal", d.Chat.Reveal)
		ui.POST("/reset", d.Chat.Reset)
	}

	api := r.Group("/api")
	{
		api.GET("/words/export", d.Export.Export)
	}

	return r
}
