package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const reportMetaKey = "report_meta"

// WithReportMeta seeds a metadata map on the request context and stamps the
// total processing time once the handler chain finishes, unless a handler
// already recorded a more precise figure.
func WithReportMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(reportMetaKey, map[string]interface{}{})
		c.Next()
		meta := ensureMeta(c)
		if _, exists := meta["processing_time_ms"]; !exists {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit marks whether the attainment report was served from cache
// instead of being recomputed.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)["cache_hit"] = hit
}

// SetProcessingTime records a handler-measured processing duration,
// overriding the middleware's coarser end-to-end figure.
func SetProcessingTime(c *gin.Context, d time.Duration) {
	ensureMeta(c)["processing_time_ms"] = d.Milliseconds()
}

// ExtractMeta returns the metadata map stored on the context, or nil when
// WithReportMeta is not installed.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(reportMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta, exists := c.Get(reportMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	meta := make(map[string]interface{})
	c.Set(reportMetaKey, meta)
	return meta
}
