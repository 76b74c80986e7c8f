package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/store"
)

// Handler serves the dashboard API.
type Handler struct {
	store       *store.Store
	log         zerolog.Logger
	uploadsDir  string
	slotCount   int
	defaultYear int
}

// NewHandler creates the API handler. uploadsDir is where preview uploads
// are kept between the preview and commit calls.
func NewHandler(st *store.Store, logger zerolog.Logger, uploadsDir string, slotCount, defaultYear int) *Handler {
	return &Handler{
		store:       st,
		log:         logger,
		uploadsDir:  uploadsDir,
		slotCount:   slotCount,
		defaultYear: defaultYear,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.POST("/import/preview", h.PreviewImport)
	router.POST("/import/commit", h.CommitImport)

	router.GET("/engineers", h.ListEngineers)
	router.POST("/engineers", h.CreateEngineer)
	router.GET("/engineers/:id", h.GetEngineer)
	router.GET("/engineers/:id/evaluations", h.ListEngineerEvaluations)

	router.GET("/users", h.ListUsers)
	router.GET("/users/coaches", h.ListCoaches)
}
