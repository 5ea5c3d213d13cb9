package integrator

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// Scene is the read-only view of a scene an integrator needs
type Scene interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color carried back along a camera ray
	RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Vec3
}
