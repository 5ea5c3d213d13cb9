package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Path to the JSON file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields no scenes.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return []SceneInfo{}, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, ParseSceneMetadata(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name and description of a scene file,
// falling back to values derived from the filename
func ParseSceneMetadata(filePath string) SceneInfo {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          "file:" + nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "file",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return info
	}
	if header.Name != "" {
		info.DisplayName = header.Name
	}
	info.Description = header.Description
	return info
}

// ListAllScenes returns built-in scenes followed by scene files found in dir
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	builtins := Builtins()
	builtinInfos := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		builtinInfos = append(builtinInfos, b.Info)
	}
	response.Groups = append(response.Groups, SceneGroup{
		Name:   "Built-in Scenes",
		Scenes: builtinInfos,
	})

	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	if len(fileScenes) > 0 {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   "Scene Files",
			Scenes: fileScenes,
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-spheres" -> "Glass Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
