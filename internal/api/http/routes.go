package http

import (
	"github.com/gin-gonic/gin"
)

// Register mounts every catalog route on r. The stream handler is optional.
func (h *Handlers) Register(r gin.IRouter, stream gin.HandlerFunc) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	catalog := r.Group("/catalog")
	{
		catalog.GET("", h.GetCatalog)
		catalog.GET("/stats", h.GetStats)
		catalog.POST("/usage", h.RecordUsage)
		catalog.PUT("/category", h.SetCategory)
		catalog.POST("/auto-categorize", h.AutoCategorize)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.AddCategory)
		categories.DELETE("/:name", h.RemoveCategory)
	}

	r.GET("/config", h.GetConfig)
	r.PUT("/config", h.SaveConfig)
	r.GET("/icons", h.GetIcon)
	r.POST("/invoke", h.Invoke)

	if stream != nil {
		r.GET("/stream", stream)
	}
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}
