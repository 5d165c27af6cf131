package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"docgen/internal/config"
	"docgen/internal/docx"
	"docgen/internal/generate"
	"docgen/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Generator is the slice of the engine the HTTP layer needs.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (*generate.Result, error)
}

type Handlers struct {
	Catalog   *services.CatalogService
	Templates *services.TemplateService
	History   *services.HistoryService
	Engine    Generator
	Log       zerolog.Logger
}

func NewRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Generation-Warning"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		api.POST("/entities", h.CreateEntity)
		api.GET("/entities", h.ListEntities)
		api.PUT("/entities/:id", h.UpdateEntity)
		api.DELETE("/entities/:id", h.DeleteEntity)

		api.POST("/clients", h.CreateClient)
		api.GET("/clients", h.ListClients)
		api.PUT("/clients/:id", h.UpdateClient)
		api.DELETE("/clients/:id", h.DeleteClient)

		api.POST("/values", h.CreateValue)
		api.GET("/values", h.ListValues)
		api.PUT("/values/:id", h.UpdateValue)
		api.DELETE("/values/:id", h.DeleteValue)

		api.POST("/templates", h.UploadTemplate)
		api.GET("/templates", h.ListTemplates)
		api.GET("/templates/:id/placeholders", h.GetPlaceholders)

		api.POST("/generate", h.Generate)
		api.GET("/history", h.GetHistory)
	}

	return r
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var notFound *generate.NotFoundError
	var unresolvable *generate.UnresolvableKeyError
	var missing *generate.MissingValueError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, generate.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, generate.ErrNoClients),
		errors.Is(err, docx.ErrInvalidTemplate),
		errors.As(err, &unresolvable),
		errors.As(err, &missing):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondErr(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
