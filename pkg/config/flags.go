package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags binds every configuration field to a flag set. Only flags the user
// actually set override the config file.
type Flags struct {
	fs         *pflag.FlagSet
	configPath string
	values     Config
	camera     struct {
		lookFrom, lookAt, up          []float64
		vfov, aperture, focusDistance float64
	}
}

// NewFlags registers the render flags on fs
func NewFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	d := Default()

	fs.StringVarP(&f.configPath, "config", "c", "", "JSON config file applied before flags")
	fs.StringVarP(&f.values.Scene, "scene", "s", d.Scene, "built-in scene name (see 'scenes')")
	fs.StringVar(&f.values.SceneFile, "scene-file", "", "JSON scene file, overrides --scene")
	fs.StringVarP(&f.values.Output, "output", "o", d.Output, "output image path, '-' for stdout")
	fs.StringVarP(&f.values.Format, "format", "f", "", "image format: ppm or png (default: from output extension)")
	fs.IntVarP(&f.values.Width, "width", "W", d.Width, "image width in pixels")
	fs.IntVarP(&f.values.Height, "height", "H", 0, "image height in pixels (default: width / aspect)")
	fs.Float64Var(&f.values.AspectRatio, "aspect", d.AspectRatio, "aspect ratio used when height is not set")
	fs.IntVar(&f.values.SamplesPerPixel, "spp", d.SamplesPerPixel, "samples per pixel")
	fs.IntVar(&f.values.MaxDepth, "depth", d.MaxDepth, "maximum ray bounce depth")
	fs.IntVarP(&f.values.Workers, "workers", "j", d.Workers, "parallel workers (0 = logical CPU count)")
	fs.Int64Var(&f.values.Seed, "seed", d.Seed, "random seed")

	fs.Float64SliceVar(&f.camera.lookFrom, "look-from", nil, "camera position x,y,z")
	fs.Float64SliceVar(&f.camera.lookAt, "look-at", nil, "camera target x,y,z")
	fs.Float64SliceVar(&f.camera.up, "up", nil, "camera up vector x,y,z")
	fs.Float64Var(&f.camera.vfov, "vfov", 0, "vertical field of view in degrees")
	fs.Float64Var(&f.camera.aperture, "aperture", 0, "lens aperture (0 = pinhole)")
	fs.Float64Var(&f.camera.focusDistance, "focus", 0, "focus distance (0 = distance to look-at)")

	return f
}

// Resolve layers defaults, the --config file and changed flags, then validates
func (f *Flags) Resolve() (Config, error) {
	cfg := Default()
	if f.configPath != "" {
		if err := LoadFile(f.configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	f.fs.Visit(func(flag *pflag.Flag) {
		f.apply(flag.Name, &cfg)
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (f *Flags) apply(name string, cfg *Config) {
	switch name {
	case "scene":
		cfg.Scene = f.values.Scene
		// An explicit built-in scene wins over a file from the config file
		if !f.fs.Changed("scene-file") {
			cfg.SceneFile = ""
		}
	case "scene-file":
		cfg.SceneFile = f.values.SceneFile
	case "output":
		cfg.Output = f.values.Output
	case "format":
		cfg.Format = f.values.Format
	case "width":
		cfg.Width = f.values.Width
	case "height":
		cfg.Height = f.values.Height
	case "aspect":
		cfg.AspectRatio = f.values.AspectRatio
	case "spp":
		cfg.SamplesPerPixel = f.values.SamplesPerPixel
	case "depth":
		cfg.MaxDepth = f.values.MaxDepth
	case "workers":
		cfg.Workers = f.values.Workers
	case "seed":
		cfg.Seed = f.values.Seed
	case "look-from":
		cfg.Camera.LookFrom = f.camera.lookFrom
	case "look-at":
		cfg.Camera.LookAt = f.camera.lookAt
	case "up":
		cfg.Camera.Up = f.camera.up
	case "vfov":
		cfg.Camera.VFov = ptr(f.camera.vfov)
	case "aperture":
		cfg.Camera.Aperture = ptr(f.camera.aperture)
	case "focus":
		cfg.Camera.FocusDistance = ptr(f.camera.focusDistance)
	}
}

// String summarizes the resolved configuration for the startup log
func (c Config) String() string {
	source := "scene " + c.Scene
	if c.SceneFile != "" {
		source = "scene file " + c.SceneFile
	}
	return fmt.Sprintf("%s, %dx%d, %d spp, depth %d, seed %d -> %s (%s)",
		source, c.Width, c.ImageHeight(), c.SamplesPerPixel, c.MaxDepth, c.Seed, c.Output, c.OutputFormat())
}

func ptr[T any](v T) *T {
	return &v
}
