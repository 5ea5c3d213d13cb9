// Package output encodes rendered images and writes them to disk.
package output

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for image formats without an encoder
var ErrUnknownFormat = errors.New("unknown image format")

// Encoder writes an image in a specific file format
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	// ContentType is the MIME type of the encoded output
	ContentType() string
	// Extension is the conventional file extension including the dot
	Extension() string
}

// Formats lists the supported format names
func Formats() []string {
	return []string{"ppm", "png"}
}

// ForFormat returns the encoder for a format name ("ppm" or "png")
func ForFormat(name string) (Encoder, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "ppm":
		return PPMEncoder{}, nil
	case "png":
		return PNGEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
}

// FormatFromPath infers the format from a file extension, defaulting to ppm
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "ppm"
	}
	return ext
}

// WriteFile encodes img to path, creating parent directories as needed.
// A path of "-" writes to stdout.
func WriteFile(path string, enc Encoder, img image.Image) error {
	if path == "-" {
		if err := enc.Encode(os.Stdout, img); err != nil {
			return fmt.Errorf("failed to write image to stdout: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
