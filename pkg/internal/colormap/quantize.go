package colormap

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
)

// Fill is the colour used for rows whose data has not arrived yet.
var Fill = [4]byte{255, 255, 255, 255}

// Index maps x onto [0,255] given the visible dB range. Out of range values clip, NaN maps to 0.
func Index(x, min, max float64) uint8 {
	scaled := (x - min) * 255 / (max - min)
	switch {
	case math.IsNaN(scaled), scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	}
	return uint8(scaled)
}

// Quantize converts rows of fftSize dB values into an RGBA byte raster of
// 4*len(values) bytes. A row whose first value is -Inf is painted with Fill.
func Quantize(values []float32, fftSize int, min, max float64, table Table) ([]byte, error) {
	if len(table) != TableSize {
		return nil, fmt.Errorf("colormap: table has %d entries", len(table))
	}
	if fftSize <= 0 || len(values)%fftSize != 0 {
		return nil, fmt.Errorf("colormap: %d values is not a whole number of %d-wide rows", len(values), fftSize)
	}
	out := make([]byte, 4*len(values))
	for start := 0; start < len(values); start += fftSize {
		row := values[start : start+fftSize]
		px := out[4*start : 4*(start+fftSize)]
		if math.IsInf(float64(row[0]), -1) {
			for i := 0; i < len(px); i += 4 {
				copy(px[i:i+4], Fill[:])
			}
			continue
		}
		for i, v := range row {
			c := table[Index(float64(v), min, max)]
			px[4*i] = c.R
			px[4*i+1] = c.G
			px[4*i+2] = c.B
			px[4*i+3] = 255
		}
	}
	return out, nil
}

// ToImage wraps an RGBA raster of the given width without copying.
func ToImage(rgba []byte, width int) (*image.RGBA, error) {
	if width <= 0 || len(rgba)%(4*width) != 0 {
		return nil, fmt.Errorf("colormap: %d bytes is not a whole number of %d-pixel rows", len(rgba), width)
	}
	height := len(rgba) / (4 * width)
	return &image.RGBA{
		Pix:    rgba,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// EncodePNG writes the raster as a PNG.
func EncodePNG(w io.Writer, rgba []byte, width int) error {
	img, err := ToImage(rgba, width)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("colormap: encode png: %w", err)
	}
	return nil
}
