package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains the hit record and the shape hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Shape     geometry.Shape
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Min(c.X, 1)*255), int(math.Min(c.Y, 1)*255), int(math.Min(c.Z, 1)*255))
}

// extractMaterialInfo describes a material with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["roughness"] = m.Roughness
		return "metal", properties

	case *material.Dielectric:
		properties["refractionIndex"] = m.RefractionIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes a shape
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of a pixel and reports the first object hit.
// pixelY counts from the top of the image.
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	j := height - 1 - pixelY
	u := (float64(pixelX) + 0.5) / float64(max(width-1, 1))
	v := (float64(j) + 0.5) / float64(max(height-1, 1))

	// Pinhole ray, the inspector ignores depth of field
	camera := geometry.NewCamera(withoutLens(sceneObj.CameraConfig))
	ray := camera.GetRay(u, v, nil)

	// Track the shape ourselves since Scene.Hit only returns the record
	var result InspectResult
	closestSoFar := math.Inf(1)
	for _, shape := range sceneObj.Shapes {
		hit, ok := shape.Hit(ray, 0.001, closestSoFar)
		if ok && (!result.Hit || hit.T < result.HitRecord.T) {
			closestSoFar = hit.T
			result = InspectResult{Hit: true, HitRecord: hit, Shape: shape}
		}
	}
	return result
}

func withoutLens(config geometry.CameraConfig) geometry.CameraConfig {
	config.Aperture = 0
	return config
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	sceneID := c.QueryParam("scene")
	if sceneID == "" {
		sceneID = "default"
	}

	params := map[string]int{}
	for _, name := range []string{"width", "height", "x", "y"} {
		value, err := strconv.Atoi(c.QueryParam(name))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
		}
		params[name] = value
	}
	width, height := params["width"], params["height"]
	if err := checkRange("width", width, 1, s.limits.MaxWidth); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := checkRange("height", height, 1, s.limits.MaxHeight); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if params["x"] < 0 || params["x"] >= width || params["y"] < 0 || params["y"] >= height {
		return echo.NewHTTPError(http.StatusBadRequest, "Pixel coordinates out of bounds")
	}

	seed := renderer.DefaultSamplingConfig().Seed
	if raw := c.QueryParam("seed"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid seed")
		}
		seed = parsed
	}

	sceneObj, err := s.loadScene(sceneID, seed)
	if err != nil {
		if errors.Is(err, scene.ErrUnknownScene) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sceneObj.ConfigureCamera(geometry.CameraConfig{}, float64(width)/float64(height))

	result := inspectPixel(sceneObj, width, height, params["x"], params["y"])
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
