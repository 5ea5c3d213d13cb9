package renderer

import (
	"image/color"
	"time"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	SamplesPerPixel int           // Samples taken per pixel
	Workers         int           // Number of workers used
	Duration        time.Duration // Wall clock render time
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// ToRGBA finalizes the pixel: average, gamma 2 correction, clamp and 8-bit quantization
func (ps *PixelStats) ToRGBA() color.RGBA {
	c := ps.GetColor().Clamp(0, 1).GammaCorrect(2).Clamp(0, 0.999)
	return color.RGBA{
		R: uint8(256 * c.X),
		G: uint8(256 * c.Y),
		B: uint8(256 * c.Z),
		A: 255,
	}
}
