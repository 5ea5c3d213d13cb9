package integrator

import (
	"math"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// shadowAcneEpsilon skips self-intersections caused by floating point error
const shadowAcneEpsilon = 0.001

// PathTracingIntegrator implements depth-bounded recursive path tracing
type PathTracingIntegrator struct {
	MaxDepth int // Maximum number of bounces
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{MaxDepth: maxDepth}
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Vec3 {
	return pt.rayColorRecursive(ray, scene, sampler, pt.MaxDepth)
}

func (pt *PathTracingIntegrator) rayColorRecursive(ray core.Ray, scene Scene, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := scene.Hit(ray, shadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.backgroundGradient(ray, scene)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		// Material absorbed the ray
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	return scatter.Attenuation.MultiplyVec(
		pt.rayColorRecursive(scatter.Scattered, scene, sampler, depth-1))
}

// backgroundGradient blends the sky colors by the ray's vertical direction
func (pt *PathTracingIntegrator) backgroundGradient(ray core.Ray, scene Scene) core.Vec3 {
	topColor, bottomColor := scene.GetBackgroundColors()
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}
