package apperr

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Respond maps err and writes the JSON error body. Internal detail is
// logged, never returned.
func Respond(c *gin.Context, log *slog.Logger, err error) {
	mapped := Map(err)
	if mapped == nil {
		return
	}
	if mapped.Err != nil && log != nil {
		log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", mapped.Status,
			"err", mapped.Err,
		)
	}
	c.AbortWithStatusJSON(mapped.Status, gin.H{"error": mapped.Message})
}
