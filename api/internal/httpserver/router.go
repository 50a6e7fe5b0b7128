package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reuseai/api/internal/handle"
	"reuseai/api/internal/logging"
)

const requestIDHeader = "X-Request-ID"

type RouterOptions struct {
	AllowOrigin    string
	MaxUploadBytes int64
}

func InitRoutes(h *handle.Handle, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), cors(opts.AllowOrigin))
	if opts.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = opts.MaxUploadBytes
		router.Use(limitBody(opts.MaxUploadBytes))
	}

	router.GET("/", h.Home)
	router.GET("/healthz", h.Healthz)
	router.POST("/analyze", h.Analyze)

	return router
}

func cors(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// limitBody caps the request body; multipart overhead gets one extra MiB.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(requestIDHeader, id)

		entry := logrus.WithField("request_id", id)
		c.Request = c.Request.WithContext(logging.WithEntry(c.Request.Context(), entry))

		started := time.Now()
		c.Next()

		entry.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(started).String(),
		}).Debug("request served")
	}
}
