package scene

import (
	"errors"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// ErrUnknownScene is returned when a scene name is not in the built-in catalogue
var ErrUnknownScene = errors.New("unknown scene")

// Scene contains all the elements needed for rendering.
// It must not be modified once rendering starts.
type Scene struct {
	Name         string
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	Shapes       []geometry.Shape // Objects in the scene
	TopColor     core.Vec3        // Sky color straight up
	BottomColor  core.Vec3        // Sky color straight down
}

// NewScene creates an empty scene with the default sky gradient
func NewScene(name string, cameraConfig geometry.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		TopColor:     core.NewVec3(1.0, 1.0, 1.0),
		BottomColor:  core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Hit returns the closest intersection along the ray within [tMin, tMax].
// On exact ties the shape added first wins.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for _, shape := range s.Shapes {
		hit, ok := shape.Hit(ray, tMin, closestSoFar)
		if ok && (closest == nil || hit.T < closest.T) {
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, closest != nil
}

// GetCamera returns the camera built by ConfigureCamera, or nil before it is called
func (s *Scene) GetCamera() *geometry.Camera {
	return s.Camera
}

// GetBackgroundColors returns the sky gradient endpoints (top, bottom)
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// ConfigureCamera applies overrides to the scene camera and builds it.
// aspectRatio <= 0 keeps the configured aspect ratio.
func (s *Scene) ConfigureCamera(override geometry.CameraConfig, aspectRatio float64) {
	config := geometry.MergeCameraConfig(s.CameraConfig, override)
	if aspectRatio > 0 {
		config.AspectRatio = aspectRatio
	}
	s.CameraConfig = config
	s.Camera = geometry.NewCamera(config)
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}
