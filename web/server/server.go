// Package server exposes the renderer over HTTP: scene listings, streamed
// renders and single-pixel inspection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-motion-pathtracer/pkg/config"
	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/renderer"
	"github.com/df07/go-motion-pathtracer/pkg/scene"
)

// Request limits keep a single render from monopolising the server
const (
	maxWidth   = 2000
	maxSamples = 10000
	maxDepth   = 200
)

// Server handles web requests for the path tracer
type Server struct {
	port     int
	logger   core.Logger
	renderID atomic.Int64
}

// NewServer creates a new web server
func NewServer(port int, logger core.Logger) *Server {
	return &Server{port: port, logger: core.LoggerOrNop(logger)}
}

// Handler returns the routes served by the API
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/scene-config", s.handleSceneConfig)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/image", s.handleImage)
	e.GET("/api/inspect", s.handleInspect)
	return e
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}

// Start serves until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	e := s.Handler()
	addr := fmt.Sprintf(":%d", s.port)

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting web server on http://localhost%s\n", addr)
		errChan <- e.Start(addr)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// HealthResponse reports liveness and the capacity renders can draw on
type HealthResponse struct {
	Status            string `json:"status"`
	CPUs              int    `json:"cpus"`
	MemoryAvailableMB uint64 `json:"memoryAvailableMB,omitempty"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	health := HealthResponse{Status: "ok", CPUs: renderer.DefaultWorkerCount()}
	if vm, err := mem.VirtualMemory(); err == nil {
		health.MemoryAvailableMB = vm.Available / (1 << 20)
	}
	return c.JSON(http.StatusOK, health)
}

// SceneSummary describes one builtin scene
type SceneSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleScenes(c echo.Context) error {
	infos := scene.List()
	summaries := make([]SceneSummary, len(infos))
	for i, info := range infos {
		summaries[i] = SceneSummary{Name: info.Name, Description: info.Description}
	}
	return c.JSON(http.StatusOK, summaries)
}

// handleSceneConfig returns the default settings of a scene and the request limits
func (s *Server) handleSceneConfig(c echo.Context) error {
	sceneName := c.QueryParam("scene")
	if sceneName == "" {
		sceneName = config.Default().Scene
	}

	sceneObj, err := scene.New(sceneName, config.Default().Seed)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, err)
	}

	camera, sampling := sceneObj.CameraConfig, sceneObj.SamplingConfig
	return c.JSON(http.StatusOK, map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           sampling.Width,
			"height":          sampling.Height,
			"aspectRatio":     camera.AspectRatio,
			"samplesPerPixel": sampling.SamplesPerPixel,
			"maxDepth":        sampling.MaxDepth,
			"shutterOpen":     camera.Time0,
			"shutterClose":    camera.Time1,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": 1, "max": maxWidth},
			"samples": map[string]int{"min": 1, "max": maxSamples},
			"depth":   map[string]int{"min": 1, "max": maxDepth},
		},
	})
}

// parseRenderRequest reads render settings from the query string over the
// defaults. Omitted values fall back to the scene's own settings.
func parseRenderRequest(values url.Values) (config.RenderConfig, error) {
	cfg := config.Default()
	if name := values.Get("scene"); name != "" {
		cfg.Scene = name
	}

	var err error
	if cfg.Width, err = parseIntParam(values, "width", 0, 1, maxWidth); err != nil {
		return cfg, err
	}
	if cfg.AspectRatio, err = parseFloatParam(values, "aspect", 0, 0.1, 10); err != nil {
		return cfg, err
	}
	if cfg.SamplesPerPixel, err = parseIntParam(values, "samples", 0, 1, maxSamples); err != nil {
		return cfg, err
	}
	if cfg.MaxDepth, err = parseIntParam(values, "depth", 0, 1, maxDepth); err != nil {
		return cfg, err
	}
	if value := values.Get("seed"); value != "" {
		if cfg.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return cfg, fmt.Errorf("invalid seed: %s", value)
		}
	}

	if values.Has("shutterOpen") || values.Has("shutterClose") {
		shutter := config.Shutter{}
		if shutter.Open, err = parseFloatParam(values, "shutterOpen", 0, 0, 100); err != nil {
			return cfg, err
		}
		if shutter.Close, err = parseFloatParam(values, "shutterClose", shutter.Open, 0, 100); err != nil {
			return cfg, err
		}
		cfg.Shutter = &shutter
	}

	return cfg, cfg.Validate()
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func (s *Server) nextRenderID() string {
	return fmt.Sprintf("render-%d", s.renderID.Add(1))
}

// statusFor maps request errors onto HTTP status codes
func statusFor(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func errorJSON(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}
