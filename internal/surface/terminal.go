package surface

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/spin"
	"github.com/iburimskiy/spinwheel/internal/wheel"
)

const halfBlock = '▀'

var readoutStyle = tcell.StyleDefault.
	Foreground(tcell.NewRGBColor(0x1f, 0x29, 0x37)).
	Background(tcell.ColorWhite).
	Bold(true)

// Terminal draws frames as half-block cells: each cell carries two vertically
// stacked pixels, which keeps the wheel round in a terminal font. The readout
// is printed as plain text on the bottom row.
type Terminal struct {
	screen tcell.Screen
	sw     *Software
	log    zerolog.Logger
}

func NewTerminal(screen tcell.Screen, cfg config.Wheel, log *zerolog.Logger) *Terminal {
	t := &Terminal{screen: screen, sw: NewSoftware(cfg, log), log: zerolog.Nop()}
	if log != nil {
		t.log = log.With().Str("surface", "terminal").Logger()
	}
	return t
}

// Configure picks up chrome settings from a new configuration.
func (t *Terminal) Configure(cfg config.Wheel) { t.sw.Configure(cfg) }

// Grid returns the side of the square pixel grid that fits a w×h cell
// terminal, one row being kept for the readout.
func Grid(w, h int) int {
	return max(0, min(w, 2*(h-1)))
}

func (t *Terminal) Present(face *wheel.Face, v spin.View) error {
	label, visible := v.Label, v.LabelVisible
	v.LabelVisible = false
	if err := t.sw.Present(face, v); err != nil {
		return err
	}

	t.screen.Clear()
	w, h := t.screen.Size()
	g := Grid(w, h)
	if g == 0 {
		t.screen.Show()
		return nil
	}
	frame := t.sw.Frame()
	left := (w - g) / 2
	for row := 0; row < g/2; row++ {
		for col := 0; col < g; col++ {
			top := sample(frame, g, col, 2*row)
			bottom := sample(frame, g, col, 2*row+1)
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bottom))
			t.screen.SetContent(left+col, row, halfBlock, nil, style)
		}
	}

	if visible && label != "" {
		text := FitText(label, float64(w-2), func(s string) float64 { return float64(len([]rune(s))) })
		runes := []rune(" " + text + " ")
		x := max(0, (w-len(runes))/2)
		for i, r := range runes {
			t.screen.SetContent(x+i, h-1, r, nil, readoutStyle)
		}
	}
	t.screen.Show()
	return nil
}

// sample picks the frame pixel at the center of grid cell (x, y) of a g×g
// grid laid over the frame.
func sample(frame *image.RGBA, g, x, y int) color.RGBA {
	side := frame.Bounds().Dx()
	return frame.RGBAAt((2*x+1)*side/(2*g), (2*y+1)*side/(2*g))
}

// cellColor maps a premultiplied pixel to a terminal color. Mostly
// transparent pixels show the terminal background.
func cellColor(c color.RGBA) tcell.Color {
	if c.A < 0x80 {
		return tcell.ColorDefault
	}
	un := func(v uint8) int32 { return int32(v) * 0xff / int32(c.A) }
	return tcell.NewRGBColor(un(c.R), un(c.G), un(c.B))
}
