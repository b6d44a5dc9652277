package palette

import (
	"fmt"
	"image"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// White is the fallback color for materials with no resolvable color.
var White = RGB{255, 255, 255}

// Hex returns the color as six lowercase hex digits, without '#'.
func (c RGB) Hex() string { return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B) }

// Floats returns the components scaled to 0..1.
func (c RGB) Floats() [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

// HSB returns hue, saturation and brightness, each in 0..1.
func (c RGB) HSB() (h, s, b float64) {
	h, s, b = colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsv()
	return h / 360, s, b
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(hex string) (RGB, uint8, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return RGB{}, 0, fmt.Errorf("invalid hex color: %q", hex)
	}
	h := hex[1:]
	if len(h) != 6 && len(h) != 8 {
		return RGB{}, 0, fmt.Errorf("invalid hex color length: %q", hex)
	}
	var comps [4]uint8
	comps[3] = 255
	for i := 0; i < len(h)/2; i++ {
		v, err := strconv.ParseUint(h[2*i:2*i+2], 16, 8)
		if err != nil {
			return RGB{}, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		comps[i] = uint8(v)
	}
	return RGB{comps[0], comps[1], comps[2]}, comps[3], nil
}

// AverageColor returns the mean color of the pixels of img whose alpha is
// non-zero, or White when every pixel is transparent.
func AverageColor(img image.Image) RGB {
	var sumR, sumG, sumB, n uint64
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			// un-premultiply back to 8 bits
			sumR += uint64(r * 0xffff / a >> 8)
			sumG += uint64(g * 0xffff / a >> 8)
			sumB += uint64(bl * 0xffff / a >> 8)
			n++
		}
	}
	if n == 0 {
		return White
	}
	return RGB{uint8(sumR / n), uint8(sumG / n), uint8(sumB / n)}
}
