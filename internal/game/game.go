// Package game is the desktop host: an ebiten game that runs a raffle on a
// spinning wheel.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/raffle"
	"github.com/iburimskiy/spinwheel/internal/sound"
	"github.com/iburimskiy/spinwheel/internal/spin"
)

const (
	charWidth  = 6 // debug font
	lineHeight = 16
	panelLines = 16
)

// Options configure a Game.
type Options struct {
	Config           config.Wheel
	Items            []string
	ItemsPath        string // shown in the status line
	DevicePixelRatio float64
	Player           sound.Player
	Logger           zerolog.Logger
	Rand             *rand.Rand
}

type button struct {
	label   string
	x, y    int
	hovered bool
	pressed bool
	enabled func() bool
	click   func() error
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+config.ButtonWidth && y >= b.y && y <= b.y+config.ButtonHeight
}

// Game implements ebiten.Game.
type Game struct {
	ctrl    *spin.Controller
	view    *WheelView
	session *raffle.Session
	player  sound.Player
	log     zerolog.Logger
	rng     *rand.Rand

	itemsPath string
	buttons   []*button

	// input edge detection
	prevKey map[ebiten.Key]bool

	// participant panel filter, typed after /
	filtering bool
	filter    []rune
	chars     []rune

	started    time.Time
	colorPhase float64
	lastErr    error
}

// New builds the wheel for opts.Items and wires the controller to the raffle
// session and the sound player.
func New(opts Options) (*Game, error) {
	g := &Game{
		session:   raffle.NewSession(opts.Items),
		player:    opts.Player,
		log:       opts.Logger,
		rng:       opts.Rand,
		itemsPath: opts.ItemsPath,
		prevKey:   map[ebiten.Key]bool{},
		started:   time.Now(),
	}
	if g.player == nil {
		g.player = sound.Nop{}
	}
	g.view = NewWheelView(opts.Config, g.log)

	ctrl, err := spin.New(g.session.Participants(), opts.Config, g.view, spin.Options{
		Logger:           &g.log,
		DevicePixelRatio: opts.DevicePixelRatio,
		OnSpinStart: func() {
			g.lastErr = nil
		},
		OnSpinEnd:    g.onSpinEnd,
		OnSectorPass: func(int) { g.player.Tick() },
	})
	if err != nil {
		return nil, err
	}
	g.ctrl = ctrl
	g.layoutButtons()
	return g, nil
}

func (g *Game) onSpinEnd(index int) error {
	name, ok := g.session.Land(index)
	if !ok {
		return fmt.Errorf("wheel stopped on index %d outside %d participants", index, len(g.session.Participants()))
	}
	g.player.Win()
	g.log.Info().Str("winner", name).Int("index", index).Msg("wheel stopped")
	return nil
}

func (g *Game) idle() bool { return g.ctrl.State() == spin.Idle }

func (g *Game) layoutButtons() {
	always := func() bool { return true }
	pending := func() bool { _, ok := g.session.Pending(); return ok }
	defs := []struct {
		label   string
		enabled func() bool
		click   func() error
	}{
		{"Spin", func() bool { return g.idle() && len(g.session.Participants()) > 0 }, g.spin},
		{"Open list", g.idle, g.openItemsDialog},
		{"Example", g.idle, func() error { g.session.Add(raffle.ExampleNames...); return g.syncItems() }},
		{"Clear", g.idle, func() error { g.session.Clear(); return g.syncItems() }},
		{"Present", pending, g.confirm},
		{"Bigger", always, func() error { return g.resize(config.WheelSizeFactor) }},
		{"Smaller", always, func() error { return g.resize(1 / config.WheelSizeFactor) }},
	}
	g.buttons = g.buttons[:0]
	for i, d := range defs {
		g.buttons = append(g.buttons, &button{
			label:   d.label,
			x:       config.ButtonX + i*(config.ButtonWidth+config.ButtonGap),
			y:       config.ButtonY,
			enabled: d.enabled,
			click:   d.click,
		})
	}
}

var hotkeys = []ebiten.Key{
	ebiten.KeySpace, ebiten.KeyEnter, ebiten.KeyBackspace, ebiten.KeyEqual,
	ebiten.KeyMinus, ebiten.KeyO, ebiten.KeySlash, ebiten.KeyEscape, ebiten.KeyQ,
}

func (g *Game) Update() error {

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}
	// every key is sampled each frame so a key held across a mode switch
	// does not fire twice
	hit := make(map[ebiten.Key]bool, len(hotkeys))
	for _, k := range hotkeys {
		hit[k] = justPressed(k)
	}

	mouseX, mouseY := ebiten.CursorPosition()
	for _, b := range g.buttons {
		b.hovered = b.contains(mouseX, mouseY) && b.enabled()
		if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			b.pressed = true
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			if b.pressed && b.hovered {
				g.report(b.click())
			}
			b.pressed = false
		}
	}

	if g.filtering {
		g.chars = ebiten.AppendInputChars(g.chars[:0])
		g.filter = append(g.filter, g.chars...)
		switch {
		case hit[ebiten.KeyBackspace] && len(g.filter) > 0:
			g.filter = g.filter[:len(g.filter)-1]
		case hit[ebiten.KeyEnter]:
			g.filtering = false
		case hit[ebiten.KeyEscape]:
			g.filtering = false
			g.filter = g.filter[:0]
		}
	} else {
		switch {
		case hit[ebiten.KeySpace] && g.idle():
			g.report(g.spin())
		case hit[ebiten.KeyEnter]:
			g.report(g.confirm())
		case hit[ebiten.KeyBackspace]:
			g.session.Dismiss()
		case hit[ebiten.KeyEqual]:
			g.report(g.resize(config.WheelSizeFactor))
		case hit[ebiten.KeyMinus]:
			g.report(g.resize(1 / config.WheelSizeFactor))
		case hit[ebiten.KeyO] && g.idle():
			g.report(g.openItemsDialog())
		case hit[ebiten.KeySlash]:
			g.filtering = true
			g.filter = g.filter[:0]
		}
		if hit[ebiten.KeyEscape] || hit[ebiten.KeyQ] {
			return ebiten.Termination
		}
	}

	g.report(g.ctrl.SetDevicePixelRatio(ebiten.Monitor().DeviceScaleFactor()))
	g.report(g.ctrl.Tick())

	speed := 0.05
	if !g.idle() {
		speed = 0.6
	}
	g.colorPhase += speed
	return nil
}

func (g *Game) report(err error) {
	if err == nil {
		return
	}
	g.lastErr = err
	g.log.Error().Err(err).Msg("wheel")
}

func (g *Game) spin() error {
	idx, err := g.session.Draw(g.rng)
	if err != nil {
		return err
	}
	return g.ctrl.Spin(idx)
}

func (g *Game) confirm() error {
	name, ok := g.session.Confirm()
	if !ok {
		return nil
	}
	g.log.Info().Str("winner", name).Int("left", len(g.session.Participants())).Msg("winner confirmed")
	return g.syncItems()
}

func (g *Game) syncItems() error {
	return g.ctrl.SetItems(g.session.Participants())
}

// resize scales the wheel. During a spin the new size waits until the wheel
// has stopped and the winner is recorded.
func (g *Game) resize(factor float64) error {
	cfg := g.ctrl.Config()
	if queued, ok := g.ctrl.Queued(); ok {
		cfg = queued
	}
	next := cfg.Resized(int(math.Round(float64(cfg.Size) * factor)))
	if next.Size == cfg.Size {
		return nil
	}
	return g.ctrl.QueueConfig(next)
}

func (g *Game) openItemsDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Participant List"),
		zenity.FileFilters{{
			Name:     "Text",
			Patterns: []string{"*.txt", "*.csv", "*.list"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	items, err := config.LoadItems(filename)
	if err != nil {
		return err
	}
	g.session.Replace(items)
	g.itemsPath = filename
	g.log.Info().Str("path", filename).Int("items", len(items)).Msg("participants loaded")
	return g.syncItems()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)

	size := g.view.Size()
	x := config.WheelLeft + (config.MaxWheelSize-size)/2
	g.view.Draw(screen, float64(x), float64(config.WheelTop))

	g.drawProgress(screen, x, config.WheelTop+size+24, size)
	for _, b := range g.buttons {
		drawButton(screen, b)
	}
	g.drawPanel(screen)
	g.drawWinner(screen)

	var status string
	switch {
	case g.filtering:
		status = "Filter: " + string(g.filter) + "_  Enter: keep  Esc: clear"
	case len(g.session.Participants()) == 0:
		status = "Add participants: Open list or Example"
	case g.idle():
		status = "Space: spin  Enter: present  Backspace: dismiss  +/-: size  /: filter  Esc/Q: quit"
	default:
		status = "Spinning..."
	}
	status += "  |  session " + formatDuration(time.Since(g.started))
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, config.StatusX, config.StatusY)
}

// drawBackground paints a slowly cycling festive gradient.
func (g *Game) drawBackground(screen *ebiten.Image) {
	for y := 0; y < config.WindowHeight; y += 2 {
		ratio := float64(y) / float64(config.WindowHeight)
		c := config.HSV(g.colorPhase+ratio*120, 0.35, 0.95)
		vector.DrawFilledRect(screen, 0, float32(y), config.WindowWidth, 2, c, false)
	}
}

func (g *Game) drawProgress(screen *ebiten.Image, x, y, width int) {
	if g.idle() {
		return
	}
	p := clamp01(g.ctrl.Progress())
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), 6, color.RGBA{R: 25, G: 30, B: 40, A: 120}, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(float64(width)*p), 6, color.RGBA{R: 239, G: 68, B: 68, A: 255}, false)
}

func drawButton(screen *ebiten.Image, b *button) {
	var bg color.Color
	switch {
	case !b.enabled():
		bg = color.RGBA{R: 140, G: 145, B: 155, A: 200}
	case b.pressed:
		bg = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	case b.hovered:
		bg = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bg = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), config.ButtonWidth, config.ButtonHeight, bg, false)
	vector.StrokeRect(screen, float32(b.x), float32(b.y), config.ButtonWidth, config.ButtonHeight, 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	textX := b.x + (config.ButtonWidth-len(b.label)*charWidth)/2
	textY := b.y + (config.ButtonHeight-lineHeight)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}

// drawPanel lists participants and winners beside the wheel.
func (g *Game) drawPanel(screen *ebiten.Image) {
	x, y := config.PanelX, config.WheelTop
	w := config.WindowWidth - x - 20
	vector.DrawFilledRect(screen, float32(x-10), float32(y-10), float32(w+20), float32(2*(panelLines+3)*lineHeight), color.RGBA{R: 20, G: 25, B: 35, A: 160}, false)

	list := func(title string, names []string, y int) int {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%d)", title, len(names)), x, y)
		y += lineHeight + 4
		for i, n := range names {
			if i == panelLines-1 && len(names) > panelLines {
				ebitenutil.DebugPrintAt(screen, fmt.Sprintf("... %d more", len(names)-i), x, y)
				return y + lineHeight
			}
			ebitenutil.DebugPrintAt(screen, truncate(n, w/charWidth), x, y)
			y += lineHeight
		}
		return y
	}
	participants, winners := g.session.Participants(), g.session.Winners()
	titleP, titleW := "Participants", "Winners"
	if term := strings.TrimSpace(string(g.filter)); term != "" {
		participants, winners = g.session.Search(term)
		titleP += " matching " + term
		titleW += " matching " + term
	}
	y = list(titleP, participants, y)
	y += lineHeight
	list(titleW, winners, y)

	if g.itemsPath != "" {
		ebitenutil.DebugPrintAt(screen, truncate(filepath.Base(g.itemsPath), w/charWidth), x, config.WindowHeight-2*lineHeight)
	}
}

// drawWinner shows the pending winner until it is presented or dismissed.
func (g *Game) drawWinner(screen *ebiten.Image) {
	name, ok := g.session.Pending()
	if !ok || !g.idle() {
		return
	}
	msg := "Winner: " + name
	help := "Enter: present   Backspace: dismiss"
	w := max(len(msg), len(help))*charWidth + 40
	h := 3*lineHeight + 24
	x := config.WheelLeft + (config.MaxWheelSize-w)/2
	y := config.WindowHeight - h - 20
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), color.RGBA{R: 20, G: 25, B: 35, A: 230}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, color.RGBA{R: 239, G: 68, B: 68, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, msg, x+20, y+12)
	ebitenutil.DebugPrintAt(screen, help, x+20, y+12+2*lineHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Close stops the wheel and the audio.
func (g *Game) Close() {
	g.ctrl.Close()
	g.player.Close()
}
