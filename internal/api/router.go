// Package api is the HTTP transport: gin routes, request binding, and the
// discriminated response envelope over the application service.
package api

import (
	"github.com/gin-gonic/gin"

	"docsight/internal/service"
	"docsight/pkg/logger"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(svc *service.Service, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log), cors())

	h := newHandler(svc, log)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.health)
		v1.POST("/analyze", h.analyze)
		v1.POST("/documents", h.upload)
		v1.GET("/documents", h.listDocuments)
		v1.DELETE("/documents/:id", h.deleteDocument)
		v1.POST("/ask", h.ask)
	}

	return router
}

// requestLogger logs one structured line per request.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Info("request handled")
	}
}

// cors allows any origin. The service has no auth surface; access control
// belongs to whatever sits in front of it.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
