package report

import (
	"image/color"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

// reds is a sequential white-to-dark-red palette.
type reds []color.Color

func (r reds) Colors() []color.Color { return r }

// newReds interpolates n colors between a near-white and a dark red.
func newReds(n int) reds {
	from := color.NRGBA{R: 255, G: 245, B: 240, A: 255}
	to := color.NRGBA{R: 103, G: 0, B: 13, A: 255}

	out := make(reds, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = color.NRGBA{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: 255,
		}
	}
	return out
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// shade picks the palette color for v on a [0, max] scale.
func (r reds) shade(v, max float64) color.Color {
	if len(r) == 0 {
		return color.Black
	}
	if max <= 0 || v <= 0 {
		return r[0]
	}
	i := int(v / max * float64(len(r)-1))
	if i >= len(r) {
		i = len(r) - 1
	}
	return r[i]
}

var categoryColors = map[domain.RiskCategory]color.Color{
	domain.CategoryLow:          color.NRGBA{R: 76, G: 175, B: 80, A: 255},
	domain.CategoryMedium:       color.NRGBA{R: 255, G: 193, B: 7, A: 255},
	domain.CategoryHigh:         color.NRGBA{R: 255, G: 112, B: 67, A: 255},
	domain.CategoryCritical:     color.NRGBA{R: 198, G: 40, B: 40, A: 255},
	domain.CategoryUnclassified: color.NRGBA{R: 158, G: 158, B: 158, A: 255},
}
