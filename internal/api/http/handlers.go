package http

import (
	"net/http"

	"github.com/GriffinCanCode/AppShelf/internal/api/command"
	"github.com/GriffinCanCode/AppShelf/internal/domain/catalog"
	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/monitoring"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the banner route.
const Version = "0.3.0"

// Sizer reports the number of cached catalog entries.
type Sizer interface {
	Len() int
}

// Info describes the running daemon for the health route.
type Info struct {
	DataDir string
	Backend string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	dispatcher *command.Dispatcher
	catalog    Sizer
	metrics    *monitoring.Metrics
	info       Info
	logger     *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(dispatcher *command.Dispatcher, catalog Sizer, metrics *monitoring.Metrics, info Info, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		dispatcher: dispatcher,
		catalog:    catalog,
		metrics:    metrics,
		info:       info,
		logger:     logger,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "online",
		"service":  "AppShelf catalog",
		"version":  Version,
		"commands": command.Kinds(),
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":   "healthy",
		"entries":  h.catalog.Len(),
		"data_dir": h.info.DataDir,
		"backend":  h.info.Backend,
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

type catalogParams struct {
	Refresh bool `form:"refresh"`
	catalog.Query
}

// GetCatalog returns the catalog, optionally refreshed and filtered
func (h *Handlers) GetCatalog(c *gin.Context) {
	var p catalogParams
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, http.StatusOK, command.GetCatalog{Refresh: p.Refresh, Query: p.Query})
}

// GetStats summarizes usage
func (h *Handlers) GetStats(c *gin.Context) {
	var p struct {
		Top int `form:"top"`
	}
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, http.StatusOK, command.GetStats{Top: p.Top})
}

// RecordUsage increments an application's launch count
func (h *Handlers) RecordUsage(c *gin.Context) {
	var req command.RecordUsage
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, http.StatusOK, req)
}

// SetCategory assigns or clears an application's category
func (h *Handlers) SetCategory(c *gin.Context) {
	var req command.SetCategory
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, http.StatusOK, req)
}

// AutoCategorize runs the classification heuristic
func (h *Handlers) AutoCategorize(c *gin.Context) {
	h.run(c, http.StatusOK, command.AutoCategorize{})
}

// ListCategories returns user categories and display order
func (h *Handlers) ListCategories(c *gin.Context) {
	res, err := h.dispatcher.Dispatch(c.Request.Context(), command.GetConfig{})
	if err != nil {
		h.fail(c, err)
		return
	}
	rec := res.(command.ConfigResult).Config
	c.JSON(http.StatusOK, command.CategoriesResult{
		UserCategories: rec.UserCategories,
		CategoryOrder:  rec.CategoryOrder,
	})
}

// AddCategory registers a user category
func (h *Handlers) AddCategory(c *gin.Context) {
	var req command.AddUserCategory
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, http.StatusCreated, req)
}

// RemoveCategory deletes a user category
func (h *Handlers) RemoveCategory(c *gin.Context) {
	h.run(c, http.StatusOK, command.RemoveUserCategory{Name: c.Param("name")})
}

// GetConfig returns the persisted record
func (h *Handlers) GetConfig(c *gin.Context) {
	h.run(c, http.StatusOK, command.GetConfig{})
}

// SaveConfig replaces the persisted record
func (h *Handlers) SaveConfig(c *gin.Context) {
	rec := metadata.Default()
	if err := c.ShouldBindJSON(rec); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, http.StatusOK, command.SaveConfig{Config: rec})
}

// GetIcon returns an application icon as a data URI
func (h *Handlers) GetIcon(c *gin.Context) {
	h.run(c, http.StatusOK, command.GetIcon{Path: c.Query("path")})
}

// Invoke runs a command envelope and answers with a reply envelope
func (h *Handlers) Invoke(c *gin.Context) {
	var env command.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		badRequest(c, err)
		return
	}
	reply := h.dispatcher.Handle(c.Request.Context(), env)
	c.JSON(StatusOf(reply.Code), reply)
}

func (h *Handlers) run(c *gin.Context, status int, req command.Request) {
	res, err := h.dispatcher.Dispatch(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, ok := res.(command.Ack); ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(status, res)
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := StatusOf(command.CodeOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.Error("command failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// StatusOf maps a reply code to an HTTP status.
func StatusOf(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case command.CodeNotFound:
		return http.StatusNotFound
	case command.CodeInvalidArgs, command.CodeUnknownCommand:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
