package scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

const testSceneJSON = `{
  "name": "file scene",
  "camera": {
    "lookFrom": [0, 1, 3],
    "lookAt": [0, 0, -1],
    "vfov": 30,
    "aspectRatio": 2,
    "aperture": 0.1
  },
  "background": {"top": "white", "bottom": [0.2, 0.3, 0.4]},
  "materials": {
    "ground": {"type": "lambertian", "albedo": "gray"},
    "gold": {"type": "metal", "albedo": "gold", "roughness": 0.3},
    "glass": {"type": "dielectric", "refractionIndex": 1.5}
  },
  "spheres": [
    {"center": [0, -100.5, -1], "radius": 100, "material": "ground"},
    {"center": [1, 0, -1], "radius": 0.5, "material": "gold"},
    {"center": [-1, 0, -1], "radius": 0.5, "material": "glass"}
  ]
}`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(testSceneJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if s.Name != "file scene" {
		t.Errorf("Name = %q", s.Name)
	}
	if len(s.Shapes) != 3 {
		t.Fatalf("Expected 3 spheres, got %d", len(s.Shapes))
	}

	config := s.CameraConfig
	if !config.Center.Equals(core.NewVec3(0, 1, 3)) || config.VFov != 30 || config.AspectRatio != 2 {
		t.Errorf("Unexpected camera config %+v", config)
	}
	if !config.Up.Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Missing up vector should default to +Y, got %v", config.Up)
	}

	if !s.TopColor.Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Top color = %v, want white", s.TopColor)
	}
	if !s.BottomColor.Equals(core.NewVec3(0.2, 0.3, 0.4)) {
		t.Errorf("Bottom color = %v", s.BottomColor)
	}

	gold, ok := s.Shapes[1].(*geometry.Sphere).Material.(*material.Metal)
	if !ok {
		t.Fatalf("Expected metal material, got %T", s.Shapes[1].(*geometry.Sphere).Material)
	}
	// colornames gold is (255, 215, 0)
	expectedGold := core.NewVec3(1, 215.0/255.0, 0)
	if gold.Albedo.Subtract(expectedGold).Length() > 1e-9 {
		t.Errorf("Gold albedo = %v, want %v", gold.Albedo, expectedGold)
	}
	if math.Abs(gold.Roughness-0.3) > 1e-12 {
		t.Errorf("Gold roughness = %f", gold.Roughness)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{
			"unknown material type",
			`{"materials": {"m": {"type": "plasma"}}, "spheres": []}`,
			"unknown material type",
		},
		{
			"unknown material reference",
			`{"materials": {}, "spheres": [{"center": [0,0,0], "radius": 1, "material": "missing"}]}`,
			"unknown material",
		},
		{
			"non-positive radius",
			`{"materials": {"m": {"type": "lambertian", "albedo": [1,1,1]}}, "spheres": [{"center": [0,0,0], "radius": 0, "material": "m"}]}`,
			"radius must be positive",
		},
		{
			"unknown color name",
			`{"materials": {"m": {"type": "lambertian", "albedo": "notacolor"}}, "spheres": []}`,
			"unknown color name",
		},
		{
			"short vector",
			`{"materials": {}, "spheres": [{"center": [0,0], "radius": 1, "material": "m"}]}`,
			"3 components",
		},
		{
			"unknown field",
			`{"lights": []}`,
			"unknown field",
		},
		{
			"missing camera",
			`{"materials": {}, "spheres": []}`,
			"lookFrom and lookAt must differ",
		},
		{
			"camera looking at itself",
			`{"camera": {"lookFrom": [1,2,3], "lookAt": [1,2,3]}, "materials": {}, "spheres": []}`,
			"lookFrom and lookAt must differ",
		},
		{
			"dielectric without index",
			`{"materials": {"m": {"type": "glass"}}, "spheres": []}`,
			"refractionIndex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.json))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nameless.json")
	content := `{"camera": {"lookFrom": [0,0,1], "lookAt": [0,0,-1]}, "materials": {"m": {"type": "lambertian", "albedo": "red"}}, "spheres": [{"center": [0,0,-1], "radius": 0.5, "material": "m"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if s.Name != "nameless" {
		t.Errorf("Scene name should fall back to the filename, got %q", s.Name)
	}
	if len(s.Shapes) != 1 {
		t.Errorf("Expected 1 sphere, got %d", len(s.Shapes))
	}
}

func TestLoadFile_ErrorMentionsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"materials": {"m": {"type": "neon"}}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("Expected error mentioning %s, got %v", path, err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
