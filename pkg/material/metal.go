package material

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo    core.Vec3 // Metal color
	Roughness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, roughness float64) *Metal {
	// Clamp roughness to valid range
	if roughness > 1.0 {
		roughness = 1.0
	}
	if roughness < 0.0 {
		roughness = 0.0
	}
	return &Metal{Albedo: albedo, Roughness: roughness}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Calculate perfect reflection direction
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// Add fuzziness by perturbing the reflection direction
	if m.Roughness > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Roughness))
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Rays perturbed below the surface are absorbed
	if scattered.Direction.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, true
}
