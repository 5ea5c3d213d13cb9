package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// Builder constructs a scene. The seed drives any randomized placement.
type Builder func(seed int64) *Scene

// Builtin pairs a scene's metadata with its builder
type Builtin struct {
	Info  SceneInfo
	Build Builder
}

// Builtins returns the built-in scene catalogue in display order
func Builtins() []Builtin {
	return []Builtin{
		{
			Info: SceneInfo{
				ID:          "default",
				DisplayName: "Three Spheres",
				Description: "Glass, diffuse and metal spheres on a gray ground",
				Type:        "builtin",
			},
			Build: func(int64) *Scene { return NewDefaultScene() },
		},
		{
			Info: SceneInfo{
				ID:          "random",
				DisplayName: "Random Spheres",
				Description: "Grid of small random spheres around three large ones",
				Type:        "builtin",
			},
			Build: NewRandomScene,
		},
		{
			Info: SceneInfo{
				ID:          "ground",
				DisplayName: "Ground Only",
				Description: "A single gray ground sphere under an empty sky",
				Type:        "builtin",
			},
			Build: func(int64) *Scene { return NewGroundScene() },
		},
		{
			Info: SceneInfo{
				ID:          "glass",
				DisplayName: "Glass and Mirror",
				Description: "Hollow glass sphere next to a mirror",
				Type:        "builtin",
			},
			Build: func(int64) *Scene { return NewGlassScene() },
		},
	}
}

// NewBuiltin builds the named built-in scene
func NewBuiltin(name string, seed int64) (*Scene, error) {
	for _, builtin := range Builtins() {
		if builtin.Info.ID == name {
			return builtin.Build(seed), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// newGroundSphere returns the huge gray sphere used as a floor
func newGroundSphere() *geometry.Sphere {
	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	return geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground)
}

// NewDefaultScene creates three unit spheres on a gray ground
func NewDefaultScene() *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s := NewScene("default", cameraConfig)
	s.Add(
		newGroundSphere(),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)
	return s
}

// NewRandomScene creates the classic cover scene: a 22x22 grid of small
// spheres with random materials around three large ones
func NewRandomScene(seed int64) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(2, 13, 12),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 13.0,
	}

	s := NewScene("random", cameraConfig)
	s.Add(newGroundSphere())

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	glass := material.NewDielectric(1.5)
	clearance := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				0.2,
				float64(b)+0.9*sampler.Get1D(),
			)

			if center.Subtract(clearance).Length() <= 0.9 {
				continue
			}

			var sphereMaterial material.Material
			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				sphereMaterial = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.RandomVec3(sampler, 0.5, 1)
				sphereMaterial = material.NewMetal(albedo, core.RandomFloat(sampler, 0, 0.5))
			default:
				sphereMaterial = glass
			}
			s.Add(geometry.NewSphere(center, 0.2, sphereMaterial))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)
	return s
}

// NewGroundScene creates a scene holding only the ground sphere
func NewGroundScene() *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1, 3),
		LookAt:      core.NewVec3(0, 0.5, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60.0,
		AspectRatio: 1.0,
	}

	s := NewScene("ground", cameraConfig)
	s.Add(newGroundSphere())
	return s
}

// NewGlassScene creates a hollow glass sphere beside a mirror
func NewGlassScene() *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1, 4),
		LookAt:      core.NewVec3(0, 0.6, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 16.0 / 9.0,
		Aperture:    0.05,
	}

	s := NewScene("glass", cameraConfig)

	// Inner sphere with inverted index models the air bubble
	bubbleCenter := core.NewVec3(-0.6, 0.6, -1)
	s.Add(
		newGroundSphere(),
		geometry.NewSphere(bubbleCenter, 0.6, material.NewDielectric(1.5)),
		geometry.NewSphere(bubbleCenter, 0.5, material.NewDielectric(1.0/1.5)),
		geometry.NewSphere(core.NewVec3(0.8, 0.6, -1.4), 0.6, material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.02)),
		geometry.NewSphere(core.NewVec3(0.2, 0.2, 0.2), 0.2, material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))),
	)
	return s
}
