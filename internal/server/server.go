package server

import (
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/api"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/config"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/store"
)

// Server is the HTTP server wrapping the API and its store.
type Server struct {
	router *gin.Engine
	store  *store.Store
}

// New builds the server: opens the database under dataDir and wires the
// API routes.
func New(cfg *config.AppConfig, dataDir string, logger zerolog.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.New(filepath.Join(dataDir, "kcsdash.db"))
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-User-Id"},
		MaxAge:          12 * time.Hour,
	}))

	handler := api.NewHandler(
		st,
		logger,
		filepath.Join(dataDir, "uploads"),
		cfg.Import.SlotCount,
		cfg.Import.DefaultYear,
	)
	handler.RegisterRoutes(router.Group("/api"))

	return &Server{router: router, store: st}, nil
}

// requestLogger logs one line per request.
func requestLogger(l zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		l.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the server's resources.
func (s *Server) Close() error {
	return s.store.Close()
}

// Store exposes the store for tests and seeding.
func (s *Server) Store() *store.Store {
	return s.store
}
