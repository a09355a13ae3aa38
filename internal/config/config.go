package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 960
	WindowHeight = 720

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 32
	ButtonX      = 20
	ButtonY      = 40
	ButtonGap    = 12

	// Host layout
	WheelLeft      = 40
	WheelTop       = 100
	PanelX         = 680
	StatusX        = 12
	StatusY        = 12
	TicksPerSecond = 60

	// Wheel resizing in the desktop host
	MinWheelSize    = 200
	MaxWheelSize    = 600
	WheelSizeFactor = 1.15
)

// DefaultPalette is cycled over the sectors.
var DefaultPalette = []string{"#fde68a", "#bfdbfe", "#bbf7d0", "#fecaca", "#ddd6fe"}

// Wheel is the rendering and animation configuration of a wheel. A value is
// treated as immutable while a face built from it is on screen.
type Wheel struct {
	Size                int      `yaml:"size"`         // logical px
	PointerSize         int      `yaml:"pointer_size"` // logical px
	Palette             []string `yaml:"palette"`
	SpinDurationMs      int      `yaml:"spin_duration_ms"`
	Revolutions         int      `yaml:"revolutions"`
	MaxDevicePixelRatio float64  `yaml:"max_device_pixel_ratio"`
	LabelMaxCharsBase   int      `yaml:"label_max_chars_base"`

	// Labels are skipped when the item count reaches this value (0 = never).
	ShowLabelsWhenLessThan int    `yaml:"show_labels_when_less_than,omitempty"`
	ForceShowLabels        bool   `yaml:"force_show_labels,omitempty"`
	Background             string `yaml:"background,omitempty"` // empty = transparent

	Sounds Sounds `yaml:"sounds,omitempty"`
}

// Sounds points at optional audio samples; empty paths use synthesized sounds.
type Sounds struct {
	Enabled bool   `yaml:"enabled"`
	Tick    string `yaml:"tick,omitempty"`
	Win     string `yaml:"win,omitempty"`
}

// Default returns the stock wheel configuration.
func Default() Wheel {
	return Wheel{
		Size:                200,
		PointerSize:         24,
		Palette:             append([]string(nil), DefaultPalette...),
		SpinDurationMs:      8000,
		Revolutions:         20,
		MaxDevicePixelRatio: 2,
		LabelMaxCharsBase:   40,
		Sounds:              Sounds{Enabled: true},
	}
}

// Resized returns w at a new wheel size, clamped to the host limits, with the
// pointer scaled along.
func (w Wheel) Resized(size int) Wheel {
	w.Size = min(MaxWheelSize, max(MinWheelSize, size))
	w.PointerSize = max(18, int(math.Round(float64(w.Size)*0.045)))
	return w
}

// SpinDuration returns the configured spin duration.
func (w Wheel) SpinDuration() time.Duration {
	return time.Duration(w.SpinDurationMs) * time.Millisecond
}

// LabelsVisible reports whether sector labels are drawn for n items.
func (w Wheel) LabelsVisible(n int) bool {
	if w.ForceShowLabels || w.ShowLabelsWhenLessThan <= 0 {
		return true
	}
	return n < w.ShowLabelsWhenLessThan
}

// Validate checks value ranges and palette syntax.
func (w Wheel) Validate() error {
	if w.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", w.Size)
	}
	if w.PointerSize < 0 {
		return fmt.Errorf("pointer_size must not be negative, got %d", w.PointerSize)
	}
	if w.SpinDurationMs <= 0 {
		return fmt.Errorf("spin_duration_ms must be positive, got %d", w.SpinDurationMs)
	}
	if w.Revolutions < 1 {
		return fmt.Errorf("revolutions must be at least 1, got %d", w.Revolutions)
	}
	if w.MaxDevicePixelRatio <= 0 {
		return fmt.Errorf("max_device_pixel_ratio must be positive, got %g", w.MaxDevicePixelRatio)
	}
	if w.LabelMaxCharsBase < 0 {
		return fmt.Errorf("label_max_chars_base must not be negative, got %d", w.LabelMaxCharsBase)
	}
	if len(w.Palette) == 0 {
		return errors.New("palette is empty")
	}
	if _, err := w.Colors(); err != nil {
		return err
	}
	if w.Background != "" {
		if _, err := ParseColor(w.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	return nil
}

// Colors parses the palette.
func (w Wheel) Colors() ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(w.Palette))
	for i, s := range w.Palette {
		c, err := ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("palette[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// BackgroundColor returns the parsed background, transparent when unset.
func (w Wheel) BackgroundColor() color.RGBA {
	if w.Background == "" {
		return color.RGBA{}
	}
	c, err := ParseColor(w.Background)
	if err != nil {
		return color.RGBA{}
	}
	return c
}

// ParseColor accepts #rgb and #rrggbb hex strings.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HSV returns the opaque color for a hue in degrees, wrapped into [0,360),
// and saturation, value in [0,1].
func HSV(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Load reads a YAML wheel config. Missing fields keep their defaults.
func Load(path string) (Wheel, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c Wheel) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
