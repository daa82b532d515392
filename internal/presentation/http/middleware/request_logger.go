package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
)

// RequestLogger logs every request on the system channel. Server errors are
// logged at error level, everything else at debug.
func RequestLogger(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
		}
		if pageID := c.Param("pageId"); pageID != "" {
			args = append(args, "pageId", pageID)
		}
		if status >= 500 {
			logger.System().Error("Request failed", args...)
			return
		}
		logger.System().Debug("Request completed", args...)
	}
}
