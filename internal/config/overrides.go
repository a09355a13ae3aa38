package config

import (
	"flag"
	"fmt"
	"strings"
)

// Overrides are command-line settings layered over the config file. Zero
// values keep the file's setting.
type Overrides struct {
	Size        int
	DurationMs  int
	Revolutions int
	Palette     string // comma separated
	Background  string
	Mute        bool
}

// RegisterFlags binds the overrides to fs.
func (o *Overrides) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&o.Size, "size", 0, "wheel size in logical px")
	fs.IntVar(&o.DurationMs, "duration", 0, "spin duration in ms")
	fs.IntVar(&o.Revolutions, "revolutions", 0, "full turns before settling")
	fs.StringVar(&o.Palette, "palette", "", "comma separated sector colors, e.g. #fde68a,#bfdbfe")
	fs.StringVar(&o.Background, "background", "", "frame background color")
	fs.BoolVar(&o.Mute, "mute", false, "disable sounds")
}

// Apply returns w with the overrides applied.
func (o Overrides) Apply(w Wheel) Wheel {
	if o.Size > 0 {
		w.Size = o.Size
	}
	if o.DurationMs > 0 {
		w.SpinDurationMs = o.DurationMs
	}
	if o.Revolutions > 0 {
		w.Revolutions = o.Revolutions
	}
	if o.Palette != "" {
		w.Palette = nil
		for _, c := range strings.Split(o.Palette, ",") {
			if c = strings.TrimSpace(c); c != "" {
				w.Palette = append(w.Palette, c)
			}
		}
	}
	if o.Background != "" {
		w.Background = o.Background
	}
	if o.Mute {
		w.Sounds.Enabled = false
	}
	return w
}

// Resolve loads the config file at path, or the defaults when path is empty,
// and layers o over it.
func Resolve(path string, o Overrides) (Wheel, error) {
	w := Default()
	if path != "" {
		var err error
		if w, err = Load(path); err != nil {
			return w, err
		}
	}
	w = o.Apply(w)
	if err := w.Validate(); err != nil {
		return w, fmt.Errorf("flags: %w", err)
	}
	return w, nil
}
