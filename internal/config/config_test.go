package config

import (
	"flag"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 8*time.Second, c.SpinDuration())
	assert.Equal(t, 20, c.Revolutions)
	assert.Equal(t, 40, c.LabelMaxCharsBase)
}

func TestHSV(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, A: 255}, HSV(0, 1, 1))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, HSV(120, 1, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, HSV(240, 1, 1))
	// hues wrap in both directions
	assert.Equal(t, HSV(120, 1, 1), HSV(480, 1, 1))
	assert.Equal(t, HSV(240, 1, 1), HSV(-120, 1, 1))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, HSV(200, 0, 1))
	assert.Equal(t, color.RGBA{A: 255}, HSV(200, 1, 0))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#fde68a")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xfd, G: 0xe6, B: 0x8a, A: 0xff}, c)

	c, err = ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	_, err = ParseColor("teal")
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Wheel){
		"size":        func(w *Wheel) { w.Size = 0 },
		"duration":    func(w *Wheel) { w.SpinDurationMs = 0 },
		"revolutions": func(w *Wheel) { w.Revolutions = 0 },
		"dpr":         func(w *Wheel) { w.MaxDevicePixelRatio = 0 },
		"palette":     func(w *Wheel) { w.Palette = nil },
		"color":       func(w *Wheel) { w.Palette = []string{"#fff", "nope"} },
		"background":  func(w *Wheel) { w.Background = "#zzz" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLabelsVisible(t *testing.T) {
	c := Default()
	assert.True(t, c.LabelsVisible(1000))

	c.ShowLabelsWhenLessThan = 200
	assert.True(t, c.LabelsVisible(199))
	assert.False(t, c.LabelsVisible(200))

	c.ForceShowLabels = true
	assert.True(t, c.LabelsVisible(500))
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wheel.yaml")

	c := Default()
	c.Size = 480
	c.Palette = []string{"#ff0000", "#00ff00"}
	c.Sounds.Win = "fanfare.wav"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: 320\nrevolutions: 4\n"), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 320, got.Size)
	assert.Equal(t, 4, got.Revolutions)
	assert.Equal(t, DefaultPalette, got.Palette)
	assert.Equal(t, 8000, got.SpinDurationMs)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("revolutions: 0\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestReadItems(t *testing.T) {
	in := "Alice\n\n  Bob  \n# comment\nCarol Danvers\n"
	items, err := ReadItems(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Carol Danvers"}, items)
}

func TestLoadItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\nB\nC\n"), 0644))

	items, err := LoadItems(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, items)

	_, err = LoadItems(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResized(t *testing.T) {
	c := Default().Resized(460)
	assert.Equal(t, 460, c.Size)
	assert.Equal(t, 21, c.PointerSize)

	assert.Equal(t, MinWheelSize, Default().Resized(10).Size)
	assert.Equal(t, 18, Default().Resized(10).PointerSize)
	assert.Equal(t, MaxWheelSize, Default().Resized(5000).Size)
}

func TestOverrides(t *testing.T) {
	var o Overrides
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-size", "320", "-duration", "3000", "-palette", "#000, #fff ,", "-mute"}))

	w := o.Apply(Default())
	assert.Equal(t, 320, w.Size)
	assert.Equal(t, 3000, w.SpinDurationMs)
	assert.Equal(t, 20, w.Revolutions)
	assert.Equal(t, []string{"#000", "#fff"}, w.Palette)
	assert.False(t, w.Sounds.Enabled)
}

func TestResolve(t *testing.T) {
	w, err := Resolve("", Overrides{Revolutions: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, w.Revolutions)

	path := filepath.Join(t.TempDir(), "wheel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: 300\nrevolutions: 5\n"), 0644))
	w, err = Resolve(path, Overrides{Revolutions: 7})
	require.NoError(t, err)
	assert.Equal(t, 300, w.Size)
	assert.Equal(t, 7, w.Revolutions)

	_, err = Resolve("", Overrides{Palette: "nope"})
	assert.Error(t, err)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.yaml"), Overrides{})
	assert.Error(t, err)
}

func TestItems(t *testing.T) {
	items, err := Items("", []string{" a ", "", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)

	path := filepath.Join(t.TempDir(), "items.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n# skip\ny\n"), 0644))
	items, err = Items(path, []string{"z"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, items)

	_, err = Items(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}
