// Package surface composites a rotating wheel face with its fixed pointer and
// label readout. Software renders into memory and Terminal into tcell cells;
// the chrome geometry here is shared with the desktop host.
package surface

import (
	"image/color"
	"math"
	"strings"
)

// Fixed chrome around the wheel, in logical px.
const (
	PointerHalfWidth = 14
	PointerTop       = -6

	ReadoutGap      = 4 // between the pointer tip row and the readout box
	ReadoutFontSize = 14
	ReadoutPadX     = 10
	ReadoutPadY     = 6
	ReadoutRadius   = 8
	readoutMinWidth = 80
	readoutMaxRatio = 0.6

	ellipsis = "…"
)

var (
	PointerColor     = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	ReadoutColor     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ReadoutTextColor = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	ReadoutShadow    = color.NRGBA{A: 31} // 12%
)

// Pointer returns the downward triangle of the pointer for a wheel of the
// given logical size: left, right and tip, scaled by s.
func Pointer(size, pointerSize int, s float64) [3][2]float64 {
	cx := float64(size) / 2
	top := float64(PointerTop)
	return [3][2]float64{
		{(cx - PointerHalfWidth) * s, top * s},
		{(cx + PointerHalfWidth) * s, top * s},
		{cx * s, (top + float64(pointerSize)) * s},
	}
}

// ReadoutMaxWidth is the widest the readout box may grow, in logical px.
func ReadoutMaxWidth(size int) float64 {
	return math.Max(readoutMinWidth, float64(size)*readoutMaxRatio)
}

// ReadoutTop returns the y of the readout box in logical px.
func ReadoutTop(pointerSize int) float64 {
	return float64(pointerSize + ReadoutGap)
}

// FitText shortens text with a trailing ellipsis until measure reports it
// fits in maxWidth. Text that already fits is returned unchanged.
func FitText(text string, maxWidth float64, measure func(string) float64) string {
	if measure(text) <= maxWidth {
		return text
	}
	runes := []rune(strings.TrimSpace(text))
	for k := len(runes) - 1; k > 0; k-- {
		s := strings.TrimRight(string(runes[:k]), " ") + ellipsis
		if measure(s) <= maxWidth {
			return s
		}
	}
	return ellipsis
}
