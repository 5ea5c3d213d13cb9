package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// SceneFile is the JSON layout of a scene description
type SceneFile struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Camera      CameraFile              `json:"camera"`
	Background  *BackgroundFile         `json:"background,omitempty"`
	Materials   map[string]MaterialFile `json:"materials"`
	Spheres     []SphereFile            `json:"spheres"`
}

// CameraFile describes the camera of a scene file
type CameraFile struct {
	LookFrom      Vec3Value `json:"lookFrom"`
	LookAt        Vec3Value `json:"lookAt"`
	Up            Vec3Value `json:"up"`
	VFov          float64   `json:"vfov"`
	AspectRatio   float64   `json:"aspectRatio"`
	Aperture      float64   `json:"aperture"`
	FocusDistance float64   `json:"focusDistance"`
}

// BackgroundFile holds the sky gradient endpoints
type BackgroundFile struct {
	Top    ColorValue `json:"top"`
	Bottom ColorValue `json:"bottom"`
}

// MaterialFile describes a named material.
// Type is one of "lambertian", "metal" or "dielectric".
type MaterialFile struct {
	Type            string     `json:"type"`
	Albedo          ColorValue `json:"albedo"`
	Roughness       float64    `json:"roughness,omitempty"`
	RefractionIndex float64    `json:"refractionIndex,omitempty"`
}

// SphereFile places a sphere using a named material
type SphereFile struct {
	Center   Vec3Value `json:"center"`
	Radius   float64   `json:"radius"`
	Material string    `json:"material"`
}

// Vec3Value decodes a vector from a JSON array of three numbers
type Vec3Value core.Vec3

// UnmarshalJSON implements json.Unmarshaler
func (v *Vec3Value) UnmarshalJSON(data []byte) error {
	var components []float64
	if err := json.Unmarshal(data, &components); err != nil {
		return fmt.Errorf("vector must be an array of numbers: %w", err)
	}
	if len(components) != 3 {
		return fmt.Errorf("vector must have 3 components, got %d", len(components))
	}
	*v = Vec3Value(core.NewVec3(components[0], components[1], components[2]))
	return nil
}

// ColorValue decodes a color from [r,g,b] in [0,1] or an SVG color name like "gold"
type ColorValue core.Vec3

// UnmarshalJSON implements json.Unmarshaler
func (c *ColorValue) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		rgba, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("unknown color name %q", name)
		}
		*c = ColorValue(core.NewVec3(
			float64(rgba.R)/255.0,
			float64(rgba.G)/255.0,
			float64(rgba.B)/255.0,
		))
		return nil
	}

	var v Vec3Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = ColorValue(v)
	return nil
}

// LoadFile reads and builds a scene from a JSON scene file
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a JSON scene description and builds the scene
func Parse(r io.Reader) (*Scene, error) {
	var file SceneFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("invalid scene JSON: %w", err)
	}
	return file.Build()
}

// Build converts the decoded file into a scene
func (f *SceneFile) Build() (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		Center:        core.Vec3(f.Camera.LookFrom),
		LookAt:        core.Vec3(f.Camera.LookAt),
		Up:            core.Vec3(f.Camera.Up),
		VFov:          f.Camera.VFov,
		AspectRatio:   f.Camera.AspectRatio,
		Aperture:      f.Camera.Aperture,
		FocusDistance: f.Camera.FocusDistance,
	}
	if cameraConfig.Up == (core.Vec3{}) {
		cameraConfig.Up = core.NewVec3(0, 1, 0)
	}
	if cameraConfig.VFov == 0 {
		cameraConfig.VFov = 40.0
	}
	if cameraConfig.AspectRatio == 0 {
		cameraConfig.AspectRatio = 16.0 / 9.0
	}

	s := NewScene(f.Name, cameraConfig)
	if f.Background != nil {
		s.TopColor = core.Vec3(f.Background.Top)
		s.BottomColor = core.Vec3(f.Background.Bottom)
	}

	materials := make(map[string]material.Material, len(f.Materials))
	for name, m := range f.Materials {
		mat, err := m.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	for i, sphere := range f.Spheres {
		if sphere.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %g", i, sphere.Radius)
		}
		mat, ok := materials[sphere.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: unknown material %q", i, sphere.Material)
		}
		s.Add(geometry.NewSphere(core.Vec3(sphere.Center), sphere.Radius, mat))
	}

	if cameraConfig.Center == cameraConfig.LookAt {
		return nil, fmt.Errorf("camera lookFrom and lookAt must differ, both are %v", cameraConfig.Center)
	}
	return s, nil
}

func (m MaterialFile) build() (material.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian", "diffuse":
		return material.NewLambertian(core.Vec3(m.Albedo)), nil
	case "metal":
		return material.NewMetal(core.Vec3(m.Albedo), m.Roughness), nil
	case "dielectric", "glass":
		if m.RefractionIndex <= 0 {
			return nil, fmt.Errorf("refractionIndex must be positive, got %g", m.RefractionIndex)
		}
		return material.NewDielectric(m.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}
