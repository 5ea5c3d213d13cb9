package renderer

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/integrator"
)

// RowRenderer renders single scanlines of the image using an integrator
type RowRenderer struct {
	scene           Scene
	integrator      integrator.Integrator
	width, height   int
	samplesPerPixel int
}

// NewRowRenderer creates a row renderer for a width x height image
func NewRowRenderer(scene Scene, integratorInst integrator.Integrator, width, height, samplesPerPixel int) *RowRenderer {
	return &RowRenderer{
		scene:           scene,
		integrator:      integratorInst,
		width:           width,
		height:          height,
		samplesPerPixel: samplesPerPixel,
	}
}

// RenderRow accumulates samples for image row `row` (0 = top) into pixels
// and returns the number of samples taken
func (rr *RowRenderer) RenderRow(row int, pixels []PixelStats, sampler core.Sampler) int {
	camera := rr.scene.GetCamera()

	// Viewport t runs bottom to top while image rows run top to bottom
	j := rr.height - 1 - row
	uScale := float64(max(rr.width-1, 1))
	vScale := float64(max(rr.height-1, 1))

	samples := 0
	for i := 0; i < rr.width; i++ {
		for s := 0; s < rr.samplesPerPixel; s++ {
			u := (float64(i) + sampler.Get1D()) / uScale
			v := (float64(j) + sampler.Get1D()) / vScale

			ray := camera.GetRay(u, v, sampler)
			pixels[i].AddSample(rr.integrator.RayColor(ray, rr.scene, sampler))
			samples++
		}
	}
	return samples
}
