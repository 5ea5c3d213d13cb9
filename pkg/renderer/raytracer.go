package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/integrator"
	"github.com/df07/go-batch-raytracer/pkg/progress"
)

// ErrInvalidSampling is returned for sampling configurations that cannot be rendered
var ErrInvalidSampling = errors.New("invalid sampling config")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed for the per-row generators
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           500,
		Height:          333,
		SamplesPerPixel: 50,
		MaxDepth:        50,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate reports the first unusable field
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w: image size %dx%d must be at least 1x1", ErrInvalidSampling, c.Width, c.Height)
	case c.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidSampling, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidSampling, c.MaxDepth)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidSampling, c.NumWorkers)
	}
	return nil
}

// Scene is everything the renderer reads from a scene.
// Implementations must not change while a render is running.
type Scene interface {
	integrator.Scene
	GetCamera() *geometry.Camera
}

// Progress reports completed scanlines. Updates arrive from a single
// goroutine with RowsCompleted strictly increasing.
type Progress struct {
	RowsCompleted int
	TotalRows     int
	Elapsed       time.Duration
	Remaining     time.Duration
}

// Raytracer renders a whole image in one batch
type Raytracer struct {
	scene      Scene
	integrator integrator.Integrator
	config     SamplingConfig
	logger     core.Logger
}

// NewRaytracer creates a raytracer using the path tracing integrator
func NewRaytracer(scene Scene, config SamplingConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:      scene,
		integrator: integrator.NewPathTracingIntegrator(config.MaxDepth),
		config:     config,
		logger:     logger,
	}
}

// Render renders every row in parallel and assembles the image in row order.
// onProgress may be nil; it never affects the rendered image.
func (rt *Raytracer) Render(ctx context.Context, onProgress func(Progress)) (*image.RGBA, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if rt.scene.GetCamera() == nil {
		return nil, RenderStats{}, errors.New("scene camera is not configured")
	}

	width, height := rt.config.Width, rt.config.Height
	start := time.Now()

	// Shared pixel statistics; each task writes only its own row
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	rowRenderer := NewRowRenderer(rt.scene, rt.integrator, width, height, rt.config.SamplesPerPixel)
	pool := NewWorkerPool(rt.config.NumWorkers)

	rt.logger.Printf("Rendering %dx%d at %d samples per pixel, max depth %d (using %d workers)...\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, pool.WorkersFor(height))

	totalSamples := 0
	rowsCompleted := 0
	err := pool.Run(ctx, NewRowTasks(height, rt.config.Seed),
		func(task RowTask) (RowResult, error) {
			samples := rowRenderer.RenderRow(task.Row, pixelStats[task.Row], core.NewRandomSampler(task.Random))
			return RowResult{Samples: samples}, nil
		},
		func(result RowResult) {
			rowsCompleted++
			totalSamples += result.Samples
			if onProgress != nil {
				elapsed := time.Since(start)
				onProgress(Progress{
					RowsCompleted: rowsCompleted,
					TotalRows:     height,
					Elapsed:       elapsed,
					Remaining:     progress.EstimateRemaining(rowsCompleted, height, elapsed),
				})
			}
		})
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("render failed: %w", err)
	}

	img := assembleImage(pixelStats, width, height)
	stats := RenderStats{
		TotalPixels:     width * height,
		TotalSamples:    totalSamples,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Workers:         pool.WorkersFor(height),
		Duration:        time.Since(start),
	}

	rt.logger.Printf("Rendered %d samples in %v\n", stats.TotalSamples, stats.Duration)
	return img, stats, nil
}

// assembleImage finalizes all pixels, row 0 at the top
func assembleImage(pixelStats [][]PixelStats, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, pixelStats[y][x].ToRGBA())
		}
	}
	return img
}
