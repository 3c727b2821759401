// Package api - Router setup
package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/railsuser2014/WebVella-ERP/internal/config"
	apperrors "github.com/railsuser2014/WebVella-ERP/internal/errors"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(h *Handler, corsCfg config.CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(h.logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.Error("handler panicked", "path", c.Request.URL.Path, "panic", recovered)
		abortWith(c, apperrors.NewInternalError(fmt.Errorf("panic: %v", recovered)))
	}))

	// With credentials the origins must be listed explicitly, never *
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsCfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/api/health", h.Health)
	r.NoRoute(func(c *gin.Context) {
		abortWith(c, apperrors.NewNotFoundError("route"))
	})

	// ==========================================================================
	// META API - entity metadata, administrators only
	// ==========================================================================
	meta := r.Group("/api/v1/meta")
	meta.Use(h.AuthMiddleware())
	{
		// Any authenticated caller may ask what it can do with an entity's records
		meta.GET("/entity/:entity/permissions", h.GetEntityPermissions)

		admin := meta.Group("")
		admin.Use(RequireAdministrator())

		admin.GET("/entity", h.ListEntities)
		admin.POST("/entity", h.CreateEntity)
		admin.GET("/entity/:entity", h.GetEntity)
		admin.PATCH("/entity/:entity", h.UpdateEntity)
		admin.DELETE("/entity/:entity", h.DeleteEntity)

		admin.GET("/entity/:entity/field", h.ListFields)
		admin.POST("/entity/:entity/field", h.CreateField)
		admin.GET("/entity/:entity/field/:item", h.GetField)
		admin.PUT("/entity/:entity/field/:item", h.UpdateField)
		admin.DELETE("/entity/:entity/field/:item", h.DeleteField)

		admin.GET("/entity/:entity/list", h.ListRecordLists)
		admin.POST("/entity/:entity/list", h.CreateRecordList)
		admin.GET("/entity/:entity/list/:item", h.GetRecordList)
		admin.PUT("/entity/:entity/list/:item", h.UpdateRecordList)
		admin.DELETE("/entity/:entity/list/:item", h.DeleteRecordList)

		admin.GET("/entity/:entity/view", h.ListRecordViews)
		admin.POST("/entity/:entity/view", h.CreateRecordView)
		admin.GET("/entity/:entity/view/:item", h.GetRecordView)
		admin.PUT("/entity/:entity/view/:item", h.UpdateRecordView)
		admin.DELETE("/entity/:entity/view/:item", h.DeleteRecordView)

		admin.GET("/list", h.ListAllRecordLists)
		admin.GET("/view", h.ListAllRecordViews)

		admin.GET("/relation", h.ListRelations)
		admin.POST("/relation", h.CreateRelation)
		admin.GET("/relation/:relation", h.GetRelation)
		admin.DELETE("/relation/:relation", h.DeleteRelation)
	}

	return r
}

// RequestLogger logs one line per request
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}
