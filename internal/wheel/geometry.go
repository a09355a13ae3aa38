// Package wheel lays out and rasterizes the static face of a selection wheel
// and maps rotation angles to sectors.
//
// Angles are in radians in screen space (y down), so increasing angles run
// clockwise. The pointer sits at -π/2 (12 o'clock) in face coordinates.
package wheel

import (
	"image/color"
	"math"
	"strings"
	"unicode"
)

// Proportions relative to the logical wheel size.
const (
	RadiusFactor      = 0.48 // wheel radius / size
	HubFactor         = 0.15 // hub radius / wheel radius
	LabelRadiusFactor = 0.82 // label anchor / wheel radius

	minFontSize = 7
	maxFontSize = 14

	// Item count above which long labels collapse to initials.
	initialsThreshold = 200
	ellipsis          = "…"
)

var (
	LabelColor = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	HubColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Sector is one wedge of the wheel, derived from its item index.
type Sector struct {
	Index int
	Start float64 // radians, face coordinates
	End   float64
	Color color.RGBA
	Label string // text as drawn, after shortening
}

// Mid returns the angular midpoint of the sector.
func (s Sector) Mid() float64 { return (s.Start + s.End) / 2 }

// Sectors partitions the circle into max(1, n) equal sectors starting at 12
// o'clock, coloring sector i with palette[i mod len(palette)]. Labels are left
// empty; see Layout for labeled sectors.
func Sectors(n int, palette []color.RGBA) []Sector {
	n = max(1, n)
	per := SectorAngle(n)
	out := make([]Sector, n)
	for i := range out {
		// neighbours share the exact boundary value
		out[i] = Sector{
			Index: i,
			Start: float64(i)*per - math.Pi/2,
			End:   float64(i+1)*per - math.Pi/2,
		}
		if len(palette) > 0 {
			out[i].Color = palette[i%len(palette)]
		}
	}
	return out
}

// Layout returns the sectors for items with shortened labels filled in.
func Layout(items []string, palette []color.RGBA, labelMaxCharsBase int) []Sector {
	sectors := Sectors(len(items), palette)
	n := len(sectors)
	for i := range sectors {
		if i < len(items) {
			sectors[i].Label = ShortLabel(items[i], n, labelMaxCharsBase)
		}
	}
	return sectors
}

// FontSize returns the label size in logical px for n sectors on a wheel of
// the given radius; it shrinks with n and stays within [7, 14].
func FontSize(radius float64, n int) float64 {
	n = max(1, n)
	return clamp(radius*0.09*math.Min(1, 40/float64(n)), minFontSize, maxFontSize)
}

// MaxLabelChars returns how many characters a label may keep on a wheel of n
// sectors before it is shortened.
func MaxLabelChars(n, base int) int {
	return max(4, base/max(1, n))
}

// ShortLabel fits text into a sector of a wheel with n sectors. Long labels
// are cut with an ellipsis, or reduced to initials on very crowded wheels.
func ShortLabel(text string, n, base int) string {
	limit := MaxLabelChars(n, base)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if n > initialsThreshold {
		return Initials(text)
	}
	return string(runes[:limit-1]) + ellipsis
}

// Initials abbreviates text to the upper-cased first letters of its first
// two words, or to the first three characters of a single word.
func Initials(text string) string {
	parts := strings.Fields(text)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		r := []rune(parts[0])
		return string(r[:min(3, len(r))])
	}
	a := []rune(parts[0])[0]
	b := []rune(parts[1])[0]
	return string([]rune{unicode.ToUpper(a), unicode.ToUpper(b)})
}
