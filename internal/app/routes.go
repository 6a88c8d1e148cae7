package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/middleware"
	"github.com/researchhub/core/internal/modules/ai"
	"github.com/researchhub/core/internal/modules/chat"
	"github.com/researchhub/core/internal/modules/citation"
	"github.com/researchhub/core/internal/modules/contact"
	"github.com/researchhub/core/internal/modules/document"
	"github.com/researchhub/core/internal/modules/extraction"
	"github.com/researchhub/core/internal/modules/feedback"
	"github.com/researchhub/core/internal/modules/note"
	"github.com/researchhub/core/internal/modules/proxy"
	"github.com/researchhub/core/internal/pkg/pdfco"
	pkgredis "github.com/researchhub/core/internal/pkg/redis"
	"github.com/researchhub/core/internal/pkg/response"
)

var startTime = time.Now()

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "researchhub-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/researchhub/core",
		"issues":   "https://github.com/researchhub/core/issues",
	}

	// Shared services
	pdfcoClient := pdfco.New(a.cfg.PDFCo)
	aiSvc := ai.NewService(db, a.cfg, rc, a.logger)
	orchestrator := extraction.NewOrchestrator(a.cfg, pdfcoClient, aiSvc, a.logger)
	extractionSvc := extraction.NewService(db, a.cfg, orchestrator, a.store, a.logger)

	// Root-level endpoints: the browser-facing fetch/OCR proxies.
	root := r.Group("")
	proxy.NewHandler(a.cfg, pdfcoClient, a.logger).RegisterRoutes(root)

	// Versioned API
	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(rc.Raw()))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(startTime).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	// Modules
	document.NewHandler(document.NewService(db, a.store, a.logger)).RegisterRoutes(api, authMW)
	extraction.NewHandler(extractionSvc).RegisterRoutes(api, authMW)
	ai.NewHandler(aiSvc).RegisterRoutes(api, authMW)
	chat.NewHandler(chat.NewService(db, aiSvc, a.logger)).RegisterRoutes(api, authMW)
	citation.NewHandler(citation.NewService(db, aiSvc, a.logger)).RegisterRoutes(api, authMW)
	note.NewHandler(note.NewService(db)).RegisterRoutes(api, authMW)
	feedback.NewHandler(db).RegisterRoutes(api, authMW)
	contact.NewHandler(db).RegisterRoutes(api)
}
