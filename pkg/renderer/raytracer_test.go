package renderer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

// MockShape implements geometry.Shape for testing
type MockShape struct {
	hitFn func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}

func (m MockShape) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return m.hitFn(ray, tMin, tMax)
}

func newGroundScene(width, height int) *scene.Scene {
	s := scene.NewGroundScene()
	s.ConfigureCamera(geometry.CameraConfig{}, float64(width)/float64(height))
	return s
}

func TestRaytracer_GroundSceneTiny(t *testing.T) {
	config := SamplingConfig{Width: 2, Height: 2, SamplesPerPixel: 1, MaxDepth: 1, NumWorkers: 2, Seed: 42}
	rt := NewRaytracer(newGroundScene(2, 2), config, nil)

	img, stats, err := rt.Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("Expected 2x2 image, got %v", img.Bounds())
	}
	if stats.TotalPixels != 4 || stats.TotalSamples != 4 {
		t.Errorf("Expected 4 pixels and 4 samples, got %+v", stats)
	}
	if stats.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", stats.Workers)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if a := img.RGBAAt(x, y).A; a != 255 {
				t.Errorf("Pixel (%d,%d) alpha = %d, expected opaque", x, y, a)
			}
		}
	}
}

func TestRaytracer_WorkerCountDoesNotChangeImage(t *testing.T) {
	s := scene.NewDefaultScene()
	s.ConfigureCamera(geometry.CameraConfig{}, 16.0/9.0)

	config := SamplingConfig{Width: 32, Height: 18, SamplesPerPixel: 4, MaxDepth: 8, Seed: 7}

	config.NumWorkers = 1
	single, _, err := NewRaytracer(s, config, nil).Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Single worker render error: %v", err)
	}

	for _, workers := range []int{2, 5, 16} {
		config.NumWorkers = workers
		multi, _, err := NewRaytracer(s, config, nil).Render(context.Background(), nil)
		if err != nil {
			t.Fatalf("%d worker render error: %v", workers, err)
		}
		for i := range single.Pix {
			if single.Pix[i] != multi.Pix[i] {
				t.Fatalf("%d workers: byte %d differs (%d vs %d)", workers, i, single.Pix[i], multi.Pix[i])
			}
		}
	}
}

func TestRaytracer_SeedChangesImage(t *testing.T) {
	s := scene.NewDefaultScene()
	s.ConfigureCamera(geometry.CameraConfig{}, 16.0/9.0)
	config := SamplingConfig{Width: 16, Height: 9, SamplesPerPixel: 2, MaxDepth: 5, NumWorkers: 2}

	config.Seed = 1
	a, _, _ := NewRaytracer(s, config, nil).Render(context.Background(), nil)
	config.Seed = 2
	b, _, _ := NewRaytracer(s, config, nil).Render(context.Background(), nil)

	same := true
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds should produce different noise")
	}
}

func TestRaytracer_SkyGradientRowOrder(t *testing.T) {
	// An empty scene looking at the horizon: the top row sees more white sky
	s := scene.NewScene("sky", geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   90,
	})
	s.ConfigureCamera(geometry.CameraConfig{}, 1.0)

	config := SamplingConfig{Width: 3, Height: 8, SamplesPerPixel: 4, MaxDepth: 2, NumWorkers: 3, Seed: 42}
	img, _, err := NewRaytracer(s, config, nil).Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	top := img.RGBAAt(1, 0)
	bottom := img.RGBAAt(1, 7)
	// Red is 1.0 at the top of the gradient and 0.5 at the bottom
	if top.R <= bottom.R {
		t.Errorf("Top row should be whiter than bottom row: top %v bottom %v", top, bottom)
	}
	if top.B != 255 || bottom.B != 255 {
		t.Errorf("Blue channel is 1.0 at both gradient ends, got top %v bottom %v", top, bottom)
	}
}

func TestRaytracer_ProgressIsMonotonic(t *testing.T) {
	config := SamplingConfig{Width: 4, Height: 12, SamplesPerPixel: 1, MaxDepth: 2, NumWorkers: 4, Seed: 42}
	rt := NewRaytracer(newGroundScene(4, 12), config, nil)

	var updates []Progress
	_, _, err := rt.Render(context.Background(), func(p Progress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if len(updates) != 12 {
		t.Fatalf("Expected 12 progress updates, got %d", len(updates))
	}
	for i, p := range updates {
		if p.RowsCompleted != i+1 || p.TotalRows != 12 {
			t.Errorf("Update %d = %+v", i, p)
		}
	}
	if last := updates[len(updates)-1]; last.Remaining != 0 {
		t.Errorf("Final update should have no time remaining, got %v", last.Remaining)
	}
}

func TestRaytracer_ShapePanicFailsRender(t *testing.T) {
	s := scene.NewScene("panic", geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   90,
	})
	s.Add(MockShape{hitFn: func(core.Ray, float64, float64) (*material.HitRecord, bool) {
		panic("corrupt shape")
	}})
	s.ConfigureCamera(geometry.CameraConfig{}, 1.0)

	config := SamplingConfig{Width: 4, Height: 4, SamplesPerPixel: 1, MaxDepth: 2, NumWorkers: 2, Seed: 42}
	img, _, err := NewRaytracer(s, config, nil).Render(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected error from panicking shape")
	}
	if img != nil {
		t.Error("Failed render should not return an image")
	}
	if !strings.Contains(err.Error(), "corrupt shape") {
		t.Errorf("Error should carry the panic value, got %v", err)
	}
}

func TestRaytracer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := SamplingConfig{Width: 8, Height: 8, SamplesPerPixel: 1, MaxDepth: 2, NumWorkers: 2, Seed: 42}
	_, _, err := NewRaytracer(newGroundScene(8, 8), config, nil).Render(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRaytracer_RequiresCamera(t *testing.T) {
	s := scene.NewGroundScene() // camera never configured
	_, _, err := NewRaytracer(s, DefaultSamplingConfig(), nil).Render(context.Background(), nil)
	if err == nil {
		t.Error("Expected error for scene without camera")
	}
}

func TestSamplingConfig_Validate(t *testing.T) {
	valid := SamplingConfig{Width: 1, Height: 1, SamplesPerPixel: 1, MaxDepth: 0}

	tests := []struct {
		name    string
		modify  func(c *SamplingConfig)
		wantErr bool
	}{
		{"minimal valid", func(c *SamplingConfig) {}, false},
		{"zero width", func(c *SamplingConfig) { c.Width = 0 }, true},
		{"zero height", func(c *SamplingConfig) { c.Height = 0 }, true},
		{"zero samples", func(c *SamplingConfig) { c.SamplesPerPixel = 0 }, true},
		{"negative depth", func(c *SamplingConfig) { c.MaxDepth = -1 }, true},
		{"negative workers", func(c *SamplingConfig) { c.NumWorkers = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSampling) {
				t.Errorf("Expected ErrInvalidSampling, got %v", err)
			}
		})
	}

	if err := DefaultSamplingConfig().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}
