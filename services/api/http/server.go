package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/config"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/dataset"
)

// Datasets is the dataset holder the server reads from; *dataset.Reloader
// implements it.
type Datasets interface {
	Current() (*climate.Dataset, time.Time, error)
	Reload(ctx context.Context) error
	SourceName() string
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg      config.Config
	datasets Datasets
	engine   *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, datasets Datasets) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(gin.Logger())
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{cfg: cfg, datasets: datasets, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		status := "ok"
		if _, _, err := s.datasets.Current(); err != nil {
			status = "loading"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})

	s.registerV1Routes()
}

// currentDataset writes a 503 and returns false while nothing is loaded.
func (s *Server) currentDataset(c *gin.Context) (*climate.Dataset, time.Time, bool) {
	ds, loadedAt, err := s.datasets.Current()
	if err != nil {
		if errors.Is(err, dataset.ErrNotLoaded) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not loaded yet"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, time.Time{}, false
	}
	return ds, loadedAt, true
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
