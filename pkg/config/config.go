// Package config resolves the render configuration from defaults, an optional
// JSON file and command line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/output"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
)

// ErrInvalidConfig is returned when a resolved configuration cannot be rendered
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete description of a render job
type Config struct {
	Scene           string         `json:"scene"`               // Built-in scene name
	SceneFile       string         `json:"sceneFile,omitempty"` // JSON scene file, overrides Scene
	Output          string         `json:"output"`              // Output path, "-" for stdout
	Format          string         `json:"format,omitempty"`    // "ppm" or "png"; inferred from Output when empty
	Width           int            `json:"width"`
	Height          int            `json:"height,omitempty"` // 0 = Width / AspectRatio
	AspectRatio     float64        `json:"aspectRatio"`
	SamplesPerPixel int            `json:"samplesPerPixel"`
	MaxDepth        int            `json:"maxDepth"`
	Workers         int            `json:"workers"` // 0 = logical CPU count
	Seed            int64          `json:"seed"`
	Camera          CameraSettings `json:"camera"`
}

// CameraSettings overrides parts of the scene camera. Unset fields keep the scene's value.
type CameraSettings struct {
	LookFrom      []float64 `json:"lookFrom,omitempty"`
	LookAt        []float64 `json:"lookAt,omitempty"`
	Up            []float64 `json:"up,omitempty"`
	VFov          *float64  `json:"vfov,omitempty"`
	Aperture      *float64  `json:"aperture,omitempty"`
	FocusDistance *float64  `json:"focusDistance,omitempty"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	sampling := renderer.DefaultSamplingConfig()
	return Config{
		Scene:           "random",
		Output:          "image.ppm",
		Width:           sampling.Width,
		AspectRatio:     3.0 / 2.0,
		SamplesPerPixel: sampling.SamplesPerPixel,
		MaxDepth:        sampling.MaxDepth,
		Workers:         sampling.NumWorkers,
		Seed:            sampling.Seed,
	}
}

// LoadFile overlays the JSON file at path onto cfg. Fields absent from the file are kept.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ImageHeight returns Height, or derives it from Width and AspectRatio when zero
func (c Config) ImageHeight() int {
	if c.Height > 0 {
		return c.Height
	}
	if c.AspectRatio <= 0 {
		return 0
	}
	return max(1, int(math.Round(float64(c.Width)/c.AspectRatio)))
}

// OutputFormat returns Format, or the format implied by the output path
func (c Config) OutputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	return output.FormatFromPath(c.Output)
}

// Validate reports the first field that makes the configuration unusable
func (c Config) Validate() error {
	switch {
	case c.Scene == "" && c.SceneFile == "":
		return fmt.Errorf("%w: no scene selected", ErrInvalidConfig)
	case c.Output == "":
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	case c.Width < 1:
		return fmt.Errorf("%w: width must be at least 1, got %d", ErrInvalidConfig, c.Width)
	case c.Height < 0:
		return fmt.Errorf("%w: height must not be negative, got %d", ErrInvalidConfig, c.Height)
	case c.Height == 0 && c.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio must be positive when height is not set, got %g", ErrInvalidConfig, c.AspectRatio)
	case c.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}

	if _, err := output.ForFormat(c.OutputFormat()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c.Camera.validate()
}

// Sampling converts the configuration into renderer settings, resolving
// the worker count against the host
func (c Config) Sampling() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		Width:           c.Width,
		Height:          c.ImageHeight(),
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		NumWorkers:      ResolveWorkers(c.Workers),
		Seed:            c.Seed,
	}
}

func (s CameraSettings) validate() error {
	for name, v := range map[string][]float64{"lookFrom": s.LookFrom, "lookAt": s.LookAt, "up": s.Up} {
		if v != nil && len(v) != 3 {
			return fmt.Errorf("%w: camera %s must have 3 components, got %d", ErrInvalidConfig, name, len(v))
		}
	}
	if s.VFov != nil && (*s.VFov <= 0 || *s.VFov >= 180) {
		return fmt.Errorf("%w: camera vfov must be in (0, 180), got %g", ErrInvalidConfig, *s.VFov)
	}
	if s.Aperture != nil && *s.Aperture < 0 {
		return fmt.Errorf("%w: camera aperture must not be negative, got %g", ErrInvalidConfig, *s.Aperture)
	}
	return nil
}

// Apply returns base with every set field replaced
func (s CameraSettings) Apply(base geometry.CameraConfig) geometry.CameraConfig {
	result := base
	if len(s.LookFrom) == 3 {
		result.Center = toVec3(s.LookFrom)
	}
	if len(s.LookAt) == 3 {
		result.LookAt = toVec3(s.LookAt)
	}
	if len(s.Up) == 3 {
		result.Up = toVec3(s.Up)
	}
	if s.VFov != nil {
		result.VFov = *s.VFov
	}
	if s.Aperture != nil {
		result.Aperture = *s.Aperture
	}
	if s.FocusDistance != nil {
		result.FocusDistance = *s.FocusDistance
	}
	return result
}

func toVec3(v []float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
