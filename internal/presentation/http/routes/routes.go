// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/container"
	"github.com/AtRiskMedia/pagebuilder-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/pagebuilder-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/pagebuilder-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(container.Logger))
	r.Use(middleware.CORSMiddleware(config.CORSAllowedOrigins))

	// Initialize handlers
	pageHandlers := handlers.NewPageHandlers(container.PageService, container.EditorService, container.Logger)
	editorHandlers := handlers.NewEditorHandlers(container.EditorService, container.Logger, container.PerfTracker)
	renderHandlers := handlers.NewRenderHandlers(container.RenderService, container.PublishService, container.Logger, container.PerfTracker)
	liveHandlers := handlers.NewLiveHandlers(container.EditorService, container.LiveHub, config.CORSAllowedOrigins, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.DB, container.EditorService, container.RenderCache, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)
		api.GET("/health/performance", healthHandlers.GetPerformance)

		pages := api.Group("/pages")
		{
			pages.GET("", pageHandlers.GetAllPages)
			pages.POST("", pageHandlers.CreatePage)
			pages.GET("/:pageId", pageHandlers.GetPage)
			pages.DELETE("/:pageId", pageHandlers.DeletePage)

			// Editor session
			pages.POST("/:pageId/session", editorHandlers.OpenSession)
			pages.DELETE("/:pageId/session", editorHandlers.CloseSession)
			pages.GET("/:pageId/state", editorHandlers.GetState)
			pages.POST("/:pageId/intents", editorHandlers.PostIntents)
			pages.POST("/:pageId/undo", editorHandlers.PostUndo)
			pages.POST("/:pageId/redo", editorHandlers.PostRedo)
			pages.POST("/:pageId/save", editorHandlers.PostSave)
			pages.POST("/:pageId/generate", editorHandlers.PostGenerate)
			pages.GET("/:pageId/live", liveHandlers.GetLive)

			// Versions
			pages.GET("/:pageId/versions", editorHandlers.GetVersions)
			pages.POST("/:pageId/versions", editorHandlers.PostVersion)
			pages.POST("/:pageId/versions/:versionId/revert", editorHandlers.PostRevert)

			// Output
			pages.GET("/:pageId/render", renderHandlers.GetRender)
			pages.GET("/:pageId/preview", renderHandlers.GetPreview)
			pages.POST("/:pageId/publish", renderHandlers.PostPublish)
		}
	}

	return r
}
