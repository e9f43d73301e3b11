// Package colorize maps particle velocity to a display colour.
//
// Hue follows the sum of the velocity components; saturation and lightness
// are fixed. The conversion uses HSLuv so every hue reads with the same
// perceived brightness.
package colorize

import (
	"image/color"
	"math"

	hsluv "github.com/hsluv/hsluv-go"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// HueScale divides dx+dy into an HSLuv hue in degrees. Hues outside
	// [0, 360) are passed through as-is; the HSLuv conversion is periodic.
	HueScale = 6.6666666

	Saturation = 100.0
	Lightness  = 50.0
)

// RGBA holds channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Hue returns the HSLuv hue used for a velocity.
func Hue(dx, dy float64) float64 {
	return (dx + dy) / HueScale
}

// ColorFor returns the colour for a particle moving with (dx, dy).
func ColorFor(dx, dy, alpha float64) RGBA {
	r, g, b := hsluv.HuslToRGB(Hue(dx, dy), Saturation, Lightness)
	return RGBA{R: r, G: g, B: b, A: alpha}
}

// NRGBA converts to 8-bit channels, clamping each into range.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(c.A),
	}
}

// RGBA implements color.Color.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex returns "#rrggbb", ignoring alpha.
func (c RGBA) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
