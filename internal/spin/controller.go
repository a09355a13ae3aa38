// Package spin drives a wheel from rest to a requested sector: an eased,
// multi-revolution rotation followed by a blinking highlight of the winner.
//
// A Controller is single-threaded. Its owner calls Tick once per frame from
// the goroutine that also calls Spin, SetItems and Close.
package spin

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/wheel"
)

const (
	blinkToggles = 6
	blinkPercent = 12 // share of the spin duration spent blinking
	minBlink     = 80 * time.Millisecond
	settleDelay  = 80 * time.Millisecond
)

var (
	ErrIndexOutOfRange = errors.New("spin index out of range")
	ErrClosed          = errors.New("controller closed")
)

// State is the phase of the controller.
type State int

const (
	Idle State = iota
	Spinning
	Blinking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Spinning:
		return "spinning"
	case Blinking:
		return "blinking"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// View is everything a surface needs to draw one frame besides the face.
// Only the controller writes it.
type View struct {
	Angle        float64 // face rotation, radians
	Label        string  // item currently under the pointer
	LabelVisible bool
	Highlight    int // highlighted sector, -1 for none
}

// Surface composites frames. Present must not keep v beyond the call unless it
// copies it; the face may be retained, it is immutable.
type Surface interface {
	Present(face *wheel.Face, v View) error
}

// Configurer is implemented by surfaces whose chrome (pointer, readout)
// depends on the configuration. The controller calls it after a new
// configuration is applied.
type Configurer interface {
	Configure(cfg config.Wheel)
}

// Options carries the collaborators of a Controller. All fields are optional.
type Options struct {
	Clock            Clock
	Logger           *zerolog.Logger
	DevicePixelRatio float64

	// OnSpinStart runs when a spin begins, before its first frame.
	OnSpinStart func()
	// OnSpinEnd runs once per completed spin with the index under the
	// pointer. Its error is returned by the Tick that ran it.
	OnSpinEnd func(index int) error
	// OnSectorPass runs whenever a different item moves under the pointer.
	OnSectorPass func(index int)
}

// run is the state of one spin. It is dropped on completion or cancellation.
type run struct {
	gen         uint64
	target      int
	final       int
	totalTarget float64
	start       time.Time
	duration    time.Duration
	passing     int
}

// Controller owns the face of a wheel and animates it.
type Controller struct {
	cfg     config.Wheel
	dpr     float64
	face    *wheel.Face
	surface Surface
	clock   Clock
	log     zerolog.Logger

	onStart func()
	onEnd   func(int) error
	onPass  func(int)

	state  State
	gen    uint64 // liveness token; bumped whenever a run ends or is dropped
	run    *run
	timers Scheduler
	view   View
	closed bool

	queued *config.Wheel // applied once the wheel is back at rest
}

// New builds the face for items and presents it at rest.
func New(items []string, cfg config.Wheel, surface Surface, opts Options) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("wheel config: %w", err)
	}
	c := &Controller{
		cfg:     cfg,
		dpr:     opts.DevicePixelRatio,
		surface: surface,
		clock:   opts.Clock,
		log:     zerolog.Nop(),
		onStart: opts.OnSpinStart,
		onEnd:   opts.OnSpinEnd,
		onPass:  opts.OnSectorPass,
		view:    View{Highlight: -1},
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "spin").Logger()
	}
	if err := c.rebuild(items); err != nil {
		return nil, err
	}
	c.present()
	return c, nil
}

// State returns the current phase.
func (c *Controller) State() State { return c.state }

// View returns the last computed frame state.
func (c *Controller) View() View { return c.view }

// Face returns the current static face.
func (c *Controller) Face() *wheel.Face { return c.face }

// Config returns the active configuration.
func (c *Controller) Config() config.Wheel { return c.cfg }

// Pending returns the number of outstanding timers.
func (c *Controller) Pending() int { return c.timers.Len() }

// Progress returns the eased fraction of the rotation covered so far: the
// current angle over the total. It is 1 once settled and 0 at rest.
func (c *Controller) Progress() float64 {
	switch {
	case c.run == nil:
		return 0
	case c.state == Blinking:
		return 1
	}
	t := math.Min(1, float64(c.clock.Now().Sub(c.run.start))/float64(c.run.duration))
	return wheel.Ease(t)
}

// Spin starts animating toward sector index. A spin already in flight is
// cancelled without completing.
func (c *Controller) Spin(index int) error {
	if c.closed {
		return ErrClosed
	}
	n := c.face.N()
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, n)
	}
	if c.state != Idle {
		c.log.Debug().Stringer("state", c.state).Msg("superseding spin in flight")
		c.cancel()
	}

	c.gen++
	c.run = &run{
		gen:         c.gen,
		target:      index,
		final:       -1,
		totalTarget: wheel.TargetAngleFor(index, n) + float64(c.cfg.Revolutions)*2*math.Pi,
		start:       c.clock.Now(),
		duration:    c.cfg.SpinDuration(),
		passing:     -1,
	}
	c.state = Spinning
	c.view = View{LabelVisible: true, Highlight: -1, Label: c.face.Item(wheel.IndexForAngle(0, n))}

	c.log.Debug().
		Int("target", index).
		Int("items", n).
		Float64("total_angle", c.run.totalTarget).
		Dur("duration", c.run.duration).
		Msg("spin started")

	if c.onStart != nil {
		c.onStart()
	}
	return nil
}

// Tick computes and presents the frame for the current time and runs any
// blink timers that are due. It returns the OnSpinEnd error when a spin
// completes with one.
func (c *Controller) Tick() error {
	if c.closed {
		return nil
	}
	now := c.clock.Now()
	if c.state == Spinning {
		c.advance(now)
	}
	return c.timers.Fire(now)
}

func (c *Controller) advance(now time.Time) {
	r := c.run
	n := c.face.N()
	t := math.Min(1, float64(now.Sub(r.start))/float64(r.duration))
	if t < 1 {
		c.view.Angle = wheel.Ease(t) * r.totalTarget
		c.pass(wheel.IndexForAngle(c.view.Angle, n))
		c.present()
		return
	}

	// Settle on the exact target and report what is actually under the pointer.
	c.view.Angle = r.totalTarget
	r.final = wheel.IndexForAngle(r.totalTarget, n)
	c.pass(r.final)
	c.present()
	if r.final != r.target {
		c.log.Warn().Int("target", r.target).Int("final", r.final).Msg("settled on a different sector")
	}
	c.state = Blinking
	c.scheduleBlink(now, r.final)
}

func (c *Controller) pass(idx int) {
	c.view.Label = c.face.Item(idx)
	if idx == c.run.passing {
		return
	}
	c.run.passing = idx
	if c.onPass != nil {
		c.onPass(idx)
	}
}

// BlinkInterval returns the time between highlight toggles for a spin of
// duration d.
func BlinkInterval(d time.Duration) time.Duration {
	ms := d.Milliseconds() * blinkPercent / (100 * blinkToggles)
	return max(minBlink, time.Duration(ms)*time.Millisecond)
}

func (c *Controller) scheduleBlink(now time.Time, final int) {
	interval := BlinkInterval(c.run.duration)
	for i := 0; i < blinkToggles; i++ {
		highlight := -1
		if i%2 == 0 {
			highlight = final
		}
		c.after(now.Add(time.Duration(i)*interval), func() error {
			c.view.Highlight = highlight
			c.present()
			return nil
		})
	}
	c.after(now.Add(blinkToggles*interval+settleDelay), func() error {
		c.view.Highlight = -1
		c.view.LabelVisible = false
		c.present()
		c.state = Idle
		c.run = nil
		c.gen++
		c.log.Debug().Int("index", final).Msg("spin finished")
		var err error
		if c.onEnd != nil {
			if err = c.onEnd(final); err != nil {
				err = fmt.Errorf("spin end callback: %w", err)
			}
		}
		if qerr := c.applyQueued(); qerr != nil {
			return errors.Join(err, qerr)
		}
		return err
	})
}

// after schedules fn for the current run; it is skipped if the run is gone
// by the time the timer fires.
func (c *Controller) after(at time.Time, fn func() error) {
	gen := c.gen
	c.timers.At(at, func() error {
		if c.closed || gen != c.gen {
			return nil
		}
		return fn()
	})
}

// cancel drops the active run and every timer it owns.
func (c *Controller) cancel() {
	c.gen++
	if dropped := c.timers.CancelAll(); dropped > 0 {
		c.log.Debug().Int("timers", dropped).Msg("cancelled pending timers")
	}
	c.run = nil
	c.state = Idle
	c.view.Highlight = -1
	c.view.LabelVisible = false
}

// SetItems replaces the items and rebuilds the face. A spin in flight is
// cancelled: its geometry no longer exists.
func (c *Controller) SetItems(items []string) error {
	if c.closed {
		return ErrClosed
	}
	if c.state != Idle {
		c.cancel()
	}
	if err := c.rebuild(items); err != nil {
		return err
	}
	if c.queued != nil {
		return c.applyQueued()
	}
	c.present()
	return nil
}

// SetConfig replaces the configuration and rebuilds the face, cancelling any
// spin in flight. Hosts that must not lose a spin use QueueConfig.
func (c *Controller) SetConfig(cfg config.Wheel) error {
	if c.closed {
		return ErrClosed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("wheel config: %w", err)
	}
	c.queued = nil
	if c.state != Idle {
		c.cancel()
	}
	prev := c.cfg
	c.cfg = cfg
	if err := c.rebuild(c.face.Items); err != nil {
		c.cfg = prev
		return err
	}
	if s, ok := c.surface.(Configurer); ok {
		s.Configure(cfg)
	}
	c.present()
	return nil
}

// QueueConfig applies cfg now when the wheel is at rest. During a spin it is
// held until the spin has settled and OnSpinEnd has run; a later call
// replaces an earlier queued one.
func (c *Controller) QueueConfig(cfg config.Wheel) error {
	if c.closed {
		return ErrClosed
	}
	if c.state == Idle {
		return c.SetConfig(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("wheel config: %w", err)
	}
	c.queued = &cfg
	return nil
}

// Queued returns the configuration waiting for the wheel to come to rest.
func (c *Controller) Queued() (config.Wheel, bool) {
	if c.queued == nil {
		return config.Wheel{}, false
	}
	return *c.queued, true
}

func (c *Controller) applyQueued() error {
	if c.queued == nil || c.closed || c.state != Idle {
		return nil
	}
	cfg := *c.queued
	return c.SetConfig(cfg)
}

// SetDevicePixelRatio re-renders the face at a new backing resolution when
// the capped ratio changes. Geometry is unchanged, so a spin keeps running.
func (c *Controller) SetDevicePixelRatio(dpr float64) error {
	if c.closed {
		return ErrClosed
	}
	if wheel.BackingScale(dpr, c.cfg.MaxDevicePixelRatio) == c.face.Scale {
		c.dpr = dpr
		return nil
	}
	prev := c.dpr
	c.dpr = dpr
	if err := c.rebuild(c.face.Items); err != nil {
		c.dpr = prev
		return err
	}
	return nil
}

func (c *Controller) rebuild(items []string) error {
	face, err := wheel.BuildFace(items, c.cfg, c.dpr)
	if err != nil {
		return fmt.Errorf("build face: %w", err)
	}
	c.face = face
	if c.state == Idle {
		c.view = View{
			Highlight: -1,
			Label:     face.Item(wheel.IndexForAngle(0, face.N())),
		}
	}
	c.log.Debug().
		Int("items", face.N()).
		Int("backing_px", face.BackingSize()).
		Float64("font_px", face.FontSize).
		Msg("face rebuilt")
	return nil
}

// Redraw presents the current frame again, for hosts whose output was
// resized or damaged.
func (c *Controller) Redraw() {
	if !c.closed {
		c.present()
	}
}

// Close tears the controller down. Pending timers are dropped, no completion
// callback fires and nothing is presented afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.cancel()
	c.queued = nil
	c.closed = true
}

// present hands the frame to the surface. Drawing is cosmetic: failures are
// logged and never interrupt the animation.
func (c *Controller) present() {
	if c.surface == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Debug().Interface("panic", r).Msg("frame draw panicked")
		}
	}()
	if err := c.surface.Present(c.face, c.view); err != nil {
		c.log.Debug().Err(err).Msg("frame draw failed")
	}
}
