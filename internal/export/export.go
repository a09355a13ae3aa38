// Package export renders a complete spin offline, frame by frame on a manual
// clock, and writes the frames as PNG files or an animated GIF.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/spin"
	"github.com/iburimskiy/spinwheel/internal/surface"
	"github.com/iburimskiy/spinwheel/internal/wheel"
)

// Settle slack after the blink phase before a run is considered stuck.
const runSlack = 5 * time.Second

var ErrIncomplete = errors.New("spin did not complete")

// Recorder is a surface that composites through a software surface and
// keeps a copy of every Nth presented frame.
type Recorder struct {
	sw     *surface.Software
	every  int
	count  int
	Frames []*image.RGBA
}

func NewRecorder(cfg config.Wheel, every int, log *zerolog.Logger) *Recorder {
	return &Recorder{sw: surface.NewSoftware(cfg, log), every: max(1, every)}
}

func (r *Recorder) Present(face *wheel.Face, v spin.View) error {
	if err := r.sw.Present(face, v); err != nil {
		return err
	}
	if r.count%r.every == 0 {
		r.Frames = append(r.Frames, r.sw.Snapshot())
	}
	r.count++
	return nil
}

// Options control an offline run.
type Options struct {
	FPS   int // frames per second of simulated time
	Every int // keep one frame in Every
	DPR   float64
	Log   *zerolog.Logger
}

// Result is the outcome of an offline run.
type Result struct {
	Frames []*image.RGBA
	Final  int
	Ticks  int
}

// Run spins a wheel of items to index on a manual clock and records it.
func Run(items []string, cfg config.Wheel, index int, opts Options) (Result, error) {
	fps := opts.FPS
	if fps <= 0 {
		fps = config.TicksPerSecond
	}
	frame := time.Second / time.Duration(fps)
	clock := spin.NewManualClock(time.Unix(0, 0))
	rec := NewRecorder(cfg, opts.Every, opts.Log)

	res := Result{Final: -1}
	done := false
	ctrl, err := spin.New(items, cfg, rec, spin.Options{
		Clock:            clock,
		Logger:           opts.Log,
		DevicePixelRatio: opts.DPR,
		OnSpinEnd: func(i int) error {
			res.Final = i
			done = true
			return nil
		},
	})
	if err != nil {
		return res, err
	}
	defer ctrl.Close()

	if err := ctrl.Spin(index); err != nil {
		return res, err
	}
	limit := cfg.SpinDuration() + 7*spin.BlinkInterval(cfg.SpinDuration()) + runSlack
	for elapsed := time.Duration(0); !done; elapsed += frame {
		if elapsed > limit {
			return res, fmt.Errorf("%w after %s", ErrIncomplete, elapsed)
		}
		clock.Advance(frame)
		if err := ctrl.Tick(); err != nil {
			return res, err
		}
		res.Ticks++
	}
	res.Frames = rec.Frames
	return res, nil
}

// WritePNGs writes frames to dir as frame_000.png, frame_001.png, ...
func WritePNGs(dir string, frames []*image.RGBA) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for i, img := range frames {
		name := filepath.Join(dir, fmt.Sprintf("frame_%03d.png", i))
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// WriteGIF encodes frames as a looping GIF, delay being the time each frame
// is shown.
func WriteGIF(w io.Writer, frames []*image.RGBA, delay time.Duration) error {
	if len(frames) == 0 {
		return errors.New("no frames")
	}
	cs := max(1, int(delay/(10*time.Millisecond)))
	anim := &gif.GIF{LoopCount: 0}
	for _, f := range frames {
		p := image.NewPaletted(f.Bounds(), palette.Plan9)
		xdraw.FloydSteinberg.Draw(p, f.Bounds(), f, image.Point{})
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, cs)
	}
	// hold the result on screen
	anim.Delay[len(anim.Delay)-1] = 200
	return gif.EncodeAll(w, anim)
}
