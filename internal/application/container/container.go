// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/storage"
	"github.com/AtRiskMedia/pagebuilder-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	PageService    *services.PageService
	EditorService  *services.EditorService
	RenderService  *services.RenderService
	PublishService *services.PublishService

	// Infrastructure
	DB          *database.DB
	Pages       *content.PageRepository
	Versions    *content.VersionRepository
	RenderCache *stores.FragmentsStore
	LiveHub     *messaging.LiveHub
	Publisher   storage.Publisher
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, publisher storage.Publisher, logger *logging.ChanneledLogger) (*Container, error) {
	pages := content.NewPageRepository(db.DB, logger)
	versions, err := content.NewVersionRepository(db.DB, logger, config.VersionCompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create version repository: %w", err)
	}

	cache := stores.NewFragmentsStore(config.RenderCacheTTL, config.RenderCacheMaxSize)
	hub := messaging.NewLiveHub(config.LiveMaxClientsPerPage, config.LiveWriteTimeout, config.LivePingInterval, logger)
	editor := services.NewEditorService(pages, versions, cache, hub, logger, services.EditorConfigFromEnv())

	return &Container{
		PageService:    services.NewPageService(pages),
		EditorService:  editor,
		RenderService:  services.NewRenderService(editor, pages, cache, logger),
		PublishService: services.NewPublishService(pages, publisher, config.PublishTimeout, logger),

		DB:          db,
		Pages:       pages,
		Versions:    versions,
		RenderCache: cache,
		LiveHub:     hub,
		Publisher:   publisher,
		Logger:      logger,
		PerfTracker: performance.NewTracker(performance.DefaultTrackerConfig()),
	}, nil
}

// Close releases resources held by the container. Editor sessions must already
// be closed.
func (c *Container) Close() error {
	c.LiveHub.CloseAll()
	c.Versions.Close()
	return c.DB.Close()
}
