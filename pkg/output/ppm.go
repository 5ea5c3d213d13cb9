package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// PPMEncoder writes plain-text PPM (P3): a header followed by one
// "r g b" line per pixel, rows top to bottom, columns left to right
type PPMEncoder struct{}

// Encode implements Encoder
func (PPMEncoder) Encode(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ContentType implements Encoder
func (PPMEncoder) ContentType() string { return "image/x-portable-pixmap" }

// Extension implements Encoder
func (PPMEncoder) Extension() string { return ".ppm" }
