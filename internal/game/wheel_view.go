package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/spin"
	"github.com/iburimskiy/spinwheel/internal/surface"
	"github.com/iburimskiy/spinwheel/internal/wheel"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// WheelView is the ebiten surface of the wheel. It keeps the latest frame
// handed over by the controller and composites it onto the game screen in
// Draw. Present runs in Update, Draw in the draw pass.
type WheelView struct {
	pointerSize int
	log         zerolog.Logger

	face *wheel.Face
	view spin.View

	// GPU copies of the face and the highlight overlay
	srcFace *wheel.Face
	faceImg *ebiten.Image
	hlFace  *wheel.Face
	hlIndex int
	hlImg   *ebiten.Image

	label *text.GoXFace

	verts []ebiten.Vertex
	idx   []uint16
}

func NewWheelView(cfg config.Wheel, log zerolog.Logger) *WheelView {
	return &WheelView{pointerSize: cfg.PointerSize, log: log, hlIndex: -1}
}

// Configure picks up chrome settings from a new configuration.
func (e *WheelView) Configure(cfg config.Wheel) {
	e.pointerSize = cfg.PointerSize
}

func (e *WheelView) Present(face *wheel.Face, v spin.View) error {
	if face == nil {
		return surface.ErrNoFace
	}
	e.face = face
	e.view = v
	return nil
}

// Size returns the logical size of the wheel area.
func (e *WheelView) Size() int {
	if e.face == nil {
		return 0
	}
	return e.face.Size
}

// Draw composites the last presented frame with its top-left corner at (x, y)
// in screen coordinates.
func (e *WheelView) Draw(screen *ebiten.Image, x, y float64) {
	if e.face == nil {
		return
	}
	f := e.face
	if e.srcFace != f {
		if e.faceImg != nil {
			e.faceImg.Deallocate()
		}
		e.faceImg = ebiten.NewImageFromImage(f.Image)
		e.srcFace = f
		e.log.Debug().Int("side", f.BackingSize()).Msg("uploaded face")
	}

	op := e.rotated(x, y)
	screen.DrawImage(e.faceImg, op)

	if hl := e.highlight(); hl != nil {
		screen.DrawImage(hl, e.rotated(x, y))
	}

	e.drawPointer(screen, x, y)
	if e.view.LabelVisible && e.view.Label != "" {
		e.drawReadout(screen, x, y)
	}
}

// rotated returns options placing a backing-resolution image of the face at
// (x, y), scaled down to logical size and turned by the current angle.
func (e *WheelView) rotated(x, y float64) *ebiten.DrawImageOptions {
	f := e.face
	half := float64(f.BackingSize()) / 2
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-half, -half)
	op.GeoM.Rotate(e.view.Angle)
	op.GeoM.Scale(1/f.Scale, 1/f.Scale)
	op.GeoM.Translate(x+float64(f.Size)/2, y+float64(f.Size)/2)
	op.Filter = ebiten.FilterLinear
	return op
}

func (e *WheelView) highlight() *ebiten.Image {
	i := e.view.Highlight
	if i < 0 || i >= e.face.N() {
		return nil
	}
	if e.hlFace != e.face || e.hlIndex != i {
		if e.hlImg != nil {
			e.hlImg.Deallocate()
		}
		e.hlImg = ebiten.NewImageFromImage(wheel.RenderHighlight(e.face, i))
		e.hlFace, e.hlIndex = e.face, i
	}
	return e.hlImg
}

func (e *WheelView) drawPointer(screen *ebiten.Image, x, y float64) {
	pts := surface.Pointer(e.face.Size, e.pointerSize, 1)
	var path vector.Path
	path.MoveTo(float32(x+pts[0][0]), float32(y+pts[0][1]))
	path.LineTo(float32(x+pts[1][0]), float32(y+pts[1][1]))
	path.LineTo(float32(x+pts[2][0]), float32(y+pts[2][1]))
	path.Close()

	e.verts, e.idx = path.AppendVerticesAndIndicesForFilling(e.verts[:0], e.idx[:0])
	r, g, b, a := surface.PointerColor.RGBA()
	for i := range e.verts {
		e.verts[i].SrcX = 1
		e.verts[i].SrcY = 1
		e.verts[i].ColorR = float32(r) / 0xffff
		e.verts[i].ColorG = float32(g) / 0xffff
		e.verts[i].ColorB = float32(b) / 0xffff
		e.verts[i].ColorA = float32(a) / 0xffff
	}
	screen.DrawTriangles(e.verts, e.idx, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (e *WheelView) drawReadout(screen *ebiten.Image, x, y float64) {
	face, err := e.readoutFace()
	if err != nil {
		e.log.Debug().Err(err).Msg("readout font unavailable")
		return
	}
	measure := func(s string) float64 {
		w, _ := text.Measure(s, face, 0)
		return w
	}
	label := surface.FitText(e.view.Label, surface.ReadoutMaxWidth(e.face.Size)-2*surface.ReadoutPadX, measure)
	tw := measure(label)
	th := face.Metrics().HAscent + face.Metrics().HDescent

	w := tw + 2*surface.ReadoutPadX
	h := th + 2*surface.ReadoutPadY
	bx := x + float64(e.face.Size)/2 - w/2
	by := y + surface.ReadoutTop(e.pointerSize)

	vector.DrawFilledRect(screen, float32(bx), float32(by+4), float32(w), float32(h), surface.ReadoutShadow, true)
	vector.DrawFilledRect(screen, float32(bx), float32(by), float32(w), float32(h), surface.ReadoutColor, true)

	op := &text.DrawOptions{}
	op.GeoM.Translate(bx+surface.ReadoutPadX, by+surface.ReadoutPadY)
	op.ColorScale.ScaleWithColor(surface.ReadoutTextColor)
	text.Draw(screen, label, face, op)
}

func (e *WheelView) readoutFace() (*text.GoXFace, error) {
	if e.label != nil {
		return e.label, nil
	}
	f, err := wheel.LabelFace(surface.ReadoutFontSize)
	if err != nil {
		return nil, err
	}
	e.label = text.NewGoXFace(f)
	return e.label, nil
}
