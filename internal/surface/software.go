package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/spin"
	"github.com/iburimskiy/spinwheel/internal/wheel"
)

var ErrNoFace = errors.New("no wheel face")

// Software composites frames into an in-memory RGBA image at the face's
// backing resolution. It is the reference renderer: headless exports and the
// terminal surface are built on it.
type Software struct {
	pointerSize int
	background  color.RGBA
	log         zerolog.Logger

	frame *image.RGBA

	// highlight overlay, rendered once per face and sector
	hlFace  *wheel.Face
	hlIndex int
	hl      *image.RGBA

	labelFace font.Face
	labelPx   float64
}

// NewSoftware creates a software surface using the pointer size and
// background of cfg. A nil logger discards.
func NewSoftware(cfg config.Wheel, log *zerolog.Logger) *Software {
	s := &Software{log: zerolog.Nop(), hlIndex: -1}
	if log != nil {
		s.log = log.With().Str("surface", "software").Logger()
	}
	s.Configure(cfg)
	return s
}

// Configure picks up chrome settings from a new configuration.
func (s *Software) Configure(cfg config.Wheel) {
	s.pointerSize = cfg.PointerSize
	s.background = cfg.BackgroundColor()
}

// Frame returns the last composited frame. It is overwritten by the next
// Present.
func (s *Software) Frame() *image.RGBA { return s.frame }

// Snapshot returns a copy of the last composited frame, or nil before the
// first Present.
func (s *Software) Snapshot() *image.RGBA {
	if s.frame == nil {
		return nil
	}
	out := image.NewRGBA(s.frame.Bounds())
	copy(out.Pix, s.frame.Pix)
	return out
}

// Present composites one frame: the face rotated by v.Angle, the highlight,
// then the pointer and readout which never rotate.
func (s *Software) Present(face *wheel.Face, v spin.View) error {
	if face == nil || face.Image == nil {
		return ErrNoFace
	}
	side := face.BackingSize()
	if s.frame == nil || s.frame.Bounds().Dx() != side {
		s.log.Debug().Int("side", side).Msg("resizing frame buffer")
		s.frame = image.NewRGBA(image.Rect(0, 0, side, side))
	}

	xdraw.Draw(s.frame, s.frame.Bounds(), image.NewUniform(s.background), image.Point{}, xdraw.Src)

	aff := rotation(v.Angle, float64(side)/2)
	xdraw.BiLinear.Transform(s.frame, aff, face.Image, face.Image.Bounds(), xdraw.Over, nil)

	if v.Highlight >= 0 && v.Highlight < face.N() {
		hl := s.highlight(face, v.Highlight)
		xdraw.BiLinear.Transform(s.frame, aff, hl, hl.Bounds(), xdraw.Over, nil)
	}

	s.drawPointer(face)

	if v.LabelVisible && v.Label != "" {
		if err := s.drawReadout(face, v.Label); err != nil {
			return fmt.Errorf("readout: %w", err)
		}
	}
	return nil
}

func (s *Software) highlight(face *wheel.Face, index int) *image.RGBA {
	if s.hlFace != face || s.hlIndex != index {
		s.hl = wheel.RenderHighlight(face, index)
		s.hlFace, s.hlIndex = face, index
	}
	return s.hl
}

// rotation maps face pixels onto the frame, turning them by angle about the
// shared center c.
func rotation(angle, c float64) f64.Aff3 {
	sin, cos := math.Sincos(angle)
	return f64.Aff3{
		cos, -sin, c - cos*c + sin*c,
		sin, cos, c - sin*c - cos*c,
	}
}

func (s *Software) drawPointer(face *wheel.Face) {
	side := face.BackingSize()
	pts := Pointer(face.Size, s.pointerSize, face.Scale)
	r := vector.NewRasterizer(side, side)
	r.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	r.LineTo(float32(pts[1][0]), float32(pts[1][1]))
	r.LineTo(float32(pts[2][0]), float32(pts[2][1]))
	r.ClosePath()
	r.Draw(s.frame, s.frame.Bounds(), image.NewUniform(PointerColor), image.Point{})
}

func (s *Software) drawReadout(face *wheel.Face, label string) error {
	scale := face.Scale
	ff, err := s.readoutFace(ReadoutFontSize * scale)
	if err != nil {
		return err
	}
	measure := func(t string) float64 { return float64(font.MeasureString(ff, t)) / 64 }

	padX, padY := ReadoutPadX*scale, ReadoutPadY*scale
	text := FitText(label, ReadoutMaxWidth(face.Size)*scale-2*padX, measure)
	m := ff.Metrics()
	asc, desc := float64(m.Ascent.Ceil()), float64(m.Descent.Ceil())

	w := measure(text) + 2*padX
	h := asc + desc + 2*padY
	x := float64(face.BackingSize())/2 - w/2
	y := ReadoutTop(s.pointerSize) * scale

	side := face.BackingSize()
	r := vector.NewRasterizer(side, side)
	roundRect(r, x, y+4*scale, w, h, ReadoutRadius*scale)
	r.Draw(s.frame, s.frame.Bounds(), image.NewUniform(ReadoutShadow), image.Point{})
	r.Reset(side, side)
	roundRect(r, x, y, w, h, ReadoutRadius*scale)
	r.Draw(s.frame, s.frame.Bounds(), image.NewUniform(ReadoutColor), image.Point{})

	d := &font.Drawer{
		Dst:  s.frame,
		Src:  image.NewUniform(ReadoutTextColor),
		Face: ff,
		Dot:  fixed.P(int(math.Round(x+padX)), int(math.Round(y+padY+asc))),
	}
	d.DrawString(text)
	return nil
}

func (s *Software) readoutFace(px float64) (font.Face, error) {
	if s.labelFace != nil && s.labelPx == px {
		return s.labelFace, nil
	}
	if s.labelFace != nil {
		s.labelFace.Close()
		s.labelFace = nil
	}
	f, err := wheel.LabelFace(px)
	if err != nil {
		return nil, err
	}
	s.labelFace, s.labelPx = f, px
	return f, nil
}

// roundRect adds a rectangle with corners of radius rad to r.
func roundRect(r *vector.Rasterizer, x, y, w, h, rad float64) {
	rad = math.Min(rad, math.Min(w, h)/2)
	const steps = 6
	corners := [4][3]float64{
		{x + w - rad, y + rad, -math.Pi / 2},
		{x + w - rad, y + h - rad, 0},
		{x + rad, y + h - rad, math.Pi / 2},
		{x + rad, y + rad, math.Pi},
	}
	first := true
	for _, c := range corners {
		for i := 0; i <= steps; i++ {
			a := c[2] + math.Pi/2*float64(i)/steps
			sin, cos := math.Sincos(a)
			px, py := float32(c[0]+rad*cos), float32(c[1]+rad*sin)
			if first {
				r.MoveTo(px, py)
				first = false
				continue
			}
			r.LineTo(px, py)
		}
	}
	r.ClosePath()
}
