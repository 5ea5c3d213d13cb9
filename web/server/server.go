package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

// Limits bounds the size of a single render job
type Limits struct {
	MaxWidth           int
	MaxHeight          int
	MaxSamplesPerPixel int
	MaxDepth           int
	MaxWorkers         int
}

// DefaultLimits returns limits suitable for an interactive server
func DefaultLimits() Limits {
	return Limits{
		MaxWidth:           2000,
		MaxHeight:          2000,
		MaxSamplesPerPixel: 1000,
		MaxDepth:           100,
		MaxWorkers:         64,
	}
}

// Server handles web requests for the batch raytracer
type Server struct {
	port      int
	scenesDir string
	limits    Limits
	echo      *echo.Echo
}

// NewServer creates a new web server. Scene files are discovered in scenesDir.
func NewServer(port int, scenesDir string, limits Limits) *Server {
	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		limits:    limits,
		echo:      echo.New(),
	}

	s.echo.HideBanner = true
	s.echo.Logger.SetLevel(log.INFO)
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.Logger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// API endpoints
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.POST("/api/render", s.handleRender)
	s.echo.GET("/api/inspect", s.handleInspect)

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.echo.Logger.Infof("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for running renders
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and any scene files
func (s *Server) handleScenes(c echo.Context) error {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, response)
}

// loadScene resolves a scene ID: a built-in name, or "file:<name>" for a scene file
func (s *Server) loadScene(id string, seed int64) (*scene.Scene, error) {
	if name, ok := strings.CutPrefix(id, "file:"); ok {
		files, err := scene.ListSceneFiles(s.scenesDir)
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == "file:"+name {
				return scene.LoadFile(info.FilePath)
			}
		}
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, id)
	}
	return scene.NewBuiltin(id, seed)
}

// requestLogger returns a logger for one render that writes through echo's logger
func (s *Server) requestLogger(c echo.Context) core.Logger {
	return NewWebLogger(c.Response().Header().Get(echo.HeaderXRequestID), s.echo.Logger)
}
