package wheel

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/spinwheel/internal/config"
)

var (
	highlightFill   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 115} // 45%
	highlightStroke = color.NRGBA{R: 0xff, G: 0x45, B: 0x3a, A: 230} // 90%
)

// Face is the pre-rendered, rotation-free image of a wheel. It is never
// modified after BuildFace returns.
type Face struct {
	Items    []string
	Sectors  []Sector
	Size     int     // logical px
	Scale    float64 // backing px per logical px
	FontSize float64 // logical px
	Image    *image.RGBA
}

// N returns the number of sectors.
func (f *Face) N() int { return len(f.Sectors) }

// Radius returns the wheel radius in logical px.
func (f *Face) Radius() float64 { return float64(f.Size) * RadiusFactor }

// BackingSize returns the side of Image in physical px.
func (f *Face) BackingSize() int { return f.Image.Bounds().Dx() }

// Item returns the full text of item i, or "" when i has no item.
func (f *Face) Item(i int) string {
	if i < 0 || i >= len(f.Items) {
		return ""
	}
	return f.Items[i]
}

// BackingScale caps the device pixel ratio; non-positive ratios count as 1.
func BackingScale(dpr, maxDPR float64) float64 {
	if dpr <= 0 {
		dpr = 1
	}
	if maxDPR > 0 && dpr > maxDPR {
		dpr = maxDPR
	}
	return dpr
}

// BuildFace lays out items and renders the static wheel face at the backing
// resolution implied by dpr.
func BuildFace(items []string, cfg config.Wheel, dpr float64) (*Face, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("invalid wheel size %d", cfg.Size)
	}
	palette, err := cfg.Colors()
	if err != nil {
		return nil, err
	}

	scale := BackingScale(dpr, cfg.MaxDevicePixelRatio)
	side := max(1, int(math.Round(float64(cfg.Size)*scale)))
	sectors := Layout(items, palette, cfg.LabelMaxCharsBase)

	f := &Face{
		Items:   append([]string(nil), items...),
		Sectors: sectors,
		Size:    cfg.Size,
		Scale:   scale,
		Image:   image.NewRGBA(image.Rect(0, 0, side, side)),
	}
	f.FontSize = FontSize(f.Radius(), f.N())

	c := float64(side) / 2
	radius := f.Radius() * scale

	r := vector.NewRasterizer(side, side)
	for _, s := range sectors {
		r.Reset(side, side)
		wedge(r, c, c, radius, s.Start, s.End)
		r.Draw(f.Image, f.Image.Bounds(), image.NewUniform(s.Color), image.Point{})
	}

	if cfg.LabelsVisible(f.N()) {
		face, err := LabelFace(f.FontSize * scale)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		anchor := radius * LabelRadiusFactor
		for _, s := range sectors {
			drawRotatedText(f.Image, face, s.Label, s.Mid(), anchor, c, c, LabelColor)
		}
	}

	r.Reset(side, side)
	circle(r, c, c, radius*HubFactor)
	r.Draw(f.Image, f.Image.Bounds(), image.NewUniform(HubColor), image.Point{})

	return f, nil
}

// RenderHighlight draws the highlight for sector index on a transparent image
// the size of the face, in face coordinates.
func RenderHighlight(f *Face, index int) *image.RGBA {
	side := f.BackingSize()
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	if index < 0 || index >= f.N() {
		return img
	}
	s := f.Sectors[index]
	c := float64(side) / 2
	radius := f.Radius() * f.Scale

	r := vector.NewRasterizer(side, side)
	wedge(r, c, c, radius, s.Start, s.End)
	r.Draw(img, img.Bounds(), image.NewUniform(highlightFill), image.Point{})

	width := math.Max(2, float64(f.Size)*0.006) * f.Scale
	r.Reset(side, side)
	stroke(r, wedgePoints(c, c, radius, s.Start, s.End), width)
	r.Draw(img, img.Bounds(), image.NewUniform(highlightStroke), image.Point{})
	return img
}

// arcSteps returns the polyline resolution for an arc: about 2 degrees a step.
func arcSteps(sweep float64) int {
	return max(2, int(math.Ceil(math.Abs(sweep)/(math.Pi/90))))
}

func wedgePoints(cx, cy, radius, start, end float64) [][2]float64 {
	steps := arcSteps(end - start)
	pts := make([][2]float64, 0, steps+2)
	pts = append(pts, [2]float64{cx, cy})
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		sin, cos := math.Sincos(a)
		pts = append(pts, [2]float64{cx + radius*cos, cy + radius*sin})
	}
	return pts
}

func wedge(r *vector.Rasterizer, cx, cy, radius, start, end float64) {
	polygon(r, wedgePoints(cx, cy, radius, start, end))
}

func circle(r *vector.Rasterizer, cx, cy, radius float64) {
	steps := arcSteps(2 * math.Pi)
	pts := make([][2]float64, 0, steps)
	for i := 0; i < steps; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
		pts = append(pts, [2]float64{cx + radius*cos, cy + radius*sin})
	}
	polygon(r, pts)
}

func polygon(r *vector.Rasterizer, pts [][2]float64) {
	if len(pts) < 3 {
		return
	}
	r.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		r.LineTo(float32(p[0]), float32(p[1]))
	}
	r.ClosePath()
}

// stroke outlines the closed polyline pts with quads of the given width.
func stroke(r *vector.Rasterizer, pts [][2]float64, width float64) {
	hw := width / 2
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		dx, dy := b[0]-a[0], b[1]-a[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		polygon(r, [][2]float64{
			{a[0] + nx, a[1] + ny},
			{b[0] + nx, b[1] + ny},
			{b[0] - nx, b[1] - ny},
			{a[0] - nx, a[1] - ny},
		})
	}
}

var (
	fontOnce sync.Once
	fontData *opentype.Font
	fontErr  error
)

// LabelFace returns a Go Regular face at px pixels. Callers close it.
func LabelFace(px float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontData, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return opentype.NewFace(fontData, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// drawRotatedText draws text right-aligned at distance anchor from (cx, cy)
// along angle, vertically centered on that ray.
func drawRotatedText(dst *image.RGBA, face font.Face, text string, angle, anchor, cx, cy float64, col color.Color) {
	if text == "" {
		return
	}
	m := face.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	w := font.MeasureString(face, text).Ceil()
	if w <= 0 || asc+desc <= 0 {
		return
	}
	tmp := image.NewRGBA(image.Rect(0, 0, w, asc+desc))
	d := &font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, asc),
	}
	d.DrawString(text)

	sin, cos := math.Sincos(angle)
	u0 := anchor - float64(w)
	v0 := -float64(asc+desc) / 2
	aff := f64.Aff3{
		cos, -sin, cx + cos*u0 - sin*v0,
		sin, cos, cy + sin*u0 + cos*v0,
	}
	xdraw.BiLinear.Transform(dst, aff, tmp, tmp.Bounds(), xdraw.Over, nil)
}
