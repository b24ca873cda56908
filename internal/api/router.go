// Package api exposes the event service over HTTP.
package api

import (
	"time"

	"CultureSync/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// RouterOptions optional surfaces of the router
type RouterOptions struct {
	Mode    string // gin mode
	Pprof   bool
	Metrics bool
}

func NewRouter(svc *service.EventService, logger *logrus.Logger, opts RouterOptions) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), cors.Default())

	if opts.Pprof {
		pprof.Register(r)
	}
	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	events := NewEventHandler(svc, logger)
	sync := NewSyncHandler(svc, logger)
	submissions := NewSubmissionHandler(svc, logger)

	g := r.Group("/api")
	g.GET("/events", events.ListEvents)
	g.POST("/events/refresh", sync.RefreshEvents)
	g.GET("/events/:id", events.GetEvent)
	g.POST("/translate-events", submissions.TranslateEvents)
	g.POST("/submit-event", submissions.SubmitEvent)
	g.GET("/user-events", events.UserEvents)
	g.GET("/health", events.Health)
	return r
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}
