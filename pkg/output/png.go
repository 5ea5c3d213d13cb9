package output

import (
	"image"
	"image/png"
	"io"
)

// PNGEncoder writes PNG images
type PNGEncoder struct{}

// Encode implements Encoder
func (PNGEncoder) Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// ContentType implements Encoder
func (PNGEncoder) ContentType() string { return "image/png" }

// Extension implements Encoder
func (PNGEncoder) Extension() string { return ".png" }
