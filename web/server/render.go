package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-batch-raytracer/pkg/config"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/output"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client.
// Zero values fall back to the renderer defaults.
type RenderRequest struct {
	Scene           string `json:"scene"`           // Scene ID (e.g., "random" or "file:glass")
	Width           int    `json:"width"`           // Image width
	Height          int    `json:"height"`          // Image height
	SamplesPerPixel int    `json:"samplesPerPixel"` // Samples per pixel
	MaxDepth        int    `json:"maxDepth"`        // Maximum bounce depth
	Workers         int    `json:"workers"`         // 0 = all CPUs, capped at the server limit
	Seed            *int64 `json:"seed"`            // Random seed
	Format          string `json:"format"`          // "ppm" or "png"
}

// Response headers carrying render statistics
const (
	headerRenderSamples  = "X-Render-Samples"
	headerRenderDuration = "X-Render-Duration-Ms"
	headerRenderWorkers  = "X-Render-Workers"
)

// handleRender renders the whole image and responds with the encoded file
func (s *Server) handleRender(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	encoder, err := output.ForFormat(req.Format)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sceneObj, err := s.loadScene(req.Scene, *req.Seed)
	if err != nil {
		if errors.Is(err, scene.ErrUnknownScene) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sceneObj.ConfigureCamera(geometry.CameraConfig{}, float64(req.Width)/float64(req.Height))

	sampling := renderer.SamplingConfig{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.SamplesPerPixel,
		MaxDepth:        req.MaxDepth,
		NumWorkers:      min(config.ResolveWorkers(req.Workers), s.limits.MaxWorkers),
		Seed:            *req.Seed,
	}

	// The request context cancels the render when the client disconnects
	raytracer := renderer.NewRaytracer(sceneObj, sampling, s.requestLogger(c))
	img, stats, err := raytracer.Render(c.Request().Context(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
	}

	header := c.Response().Header()
	header.Set(headerRenderSamples, strconv.Itoa(stats.TotalSamples))
	header.Set(headerRenderDuration, strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	header.Set(headerRenderWorkers, strconv.Itoa(stats.Workers))
	return c.Blob(http.StatusOK, encoder.ContentType(), buf.Bytes())
}

// parseRenderRequest binds the JSON body, fills defaults and enforces the server limits
func (s *Server) parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := c.Bind(req); err != nil {
		return nil, err
	}

	defaults := renderer.DefaultSamplingConfig()
	if req.Scene == "" {
		req.Scene = "default"
	}
	if req.Width == 0 {
		req.Width = defaults.Width
	}
	if req.Height == 0 {
		req.Height = defaults.Height
	}
	if req.SamplesPerPixel == 0 {
		req.SamplesPerPixel = defaults.SamplesPerPixel
	}
	if req.MaxDepth == 0 {
		req.MaxDepth = defaults.MaxDepth
	}
	if req.Seed == nil {
		req.Seed = &defaults.Seed
	}
	if req.Format == "" {
		req.Format = "png"
	}

	if err := checkRange("width", req.Width, 1, s.limits.MaxWidth); err != nil {
		return nil, err
	}
	if err := checkRange("height", req.Height, 1, s.limits.MaxHeight); err != nil {
		return nil, err
	}
	if err := checkRange("samplesPerPixel", req.SamplesPerPixel, 1, s.limits.MaxSamplesPerPixel); err != nil {
		return nil, err
	}
	if err := checkRange("maxDepth", req.MaxDepth, 1, s.limits.MaxDepth); err != nil {
		return nil, err
	}
	if err := checkRange("workers", req.Workers, 0, s.limits.MaxWorkers); err != nil {
		return nil, err
	}
	return req, nil
}

func checkRange(name string, value, minValue, maxValue int) error {
	if value < minValue || value > maxValue {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, minValue, maxValue, value)
	}
	return nil
}
