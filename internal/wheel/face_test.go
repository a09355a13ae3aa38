package wheel

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/spinwheel/internal/config"
)

func testConfig() config.Wheel {
	c := config.Default()
	c.Palette = []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00"}
	return c
}

// sampleSector reads the face pixel at fraction frac of the radius along the
// midpoint of sector i.
func sampleSector(f *Face, i int, frac float64) color.RGBA {
	c := float64(f.BackingSize()) / 2
	r := f.Radius() * f.Scale * frac
	sin, cos := math.Sincos(f.Sectors[i].Mid())
	return f.Image.RGBAAt(int(c+r*cos), int(c+r*sin))
}

func TestBuildFaceColorsSectors(t *testing.T) {
	cfg := testConfig()
	f, err := BuildFace([]string{"A", "B", "C", "D"}, cfg, 1)
	require.NoError(t, err)
	require.Equal(t, 4, f.N())
	assert.Equal(t, 200, f.BackingSize())

	palette, err := cfg.Colors()
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.Equal(t, palette[i], sampleSector(f, i, 0.4), "sector %d", i)
	}

	// hub on top, transparent outside the disk
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, f.Image.RGBAAt(100, 100))
	assert.Equal(t, uint8(0), f.Image.RGBAAt(1, 1).A)
}

func TestBuildFaceSectorZeroStartsAtTop(t *testing.T) {
	f, err := BuildFace([]string{"A", "B", "C", "D"}, testConfig(), 1)
	require.NoError(t, err)

	// just clockwise of 12 o'clock is sector 0 (red), just counter-clockwise is sector 3 (yellow)
	right := f.Image.RGBAAt(110, 40)
	left := f.Image.RGBAAt(89, 40)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, right)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, A: 0xff}, left)
}

func TestBuildFaceCapsDevicePixelRatio(t *testing.T) {
	cfg := testConfig()

	f, err := BuildFace([]string{"A", "B"}, cfg, 3)
	require.NoError(t, err)
	assert.Equal(t, 2.0, f.Scale)
	assert.Equal(t, 400, f.BackingSize())
	assert.Equal(t, 200, f.Size)

	f, err = BuildFace([]string{"A", "B"}, cfg, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 300, f.BackingSize())

	f, err = BuildFace([]string{"A", "B"}, cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.Scale)
	assert.Equal(t, 200, f.BackingSize())
}

func TestBuildFaceIsDeterministic(t *testing.T) {
	items := []string{"Alexandra", "Bob", "Carol Danvers", "Dmitri", "Eve", "Frank", "Grace", "Heidi", "Ivan", "Judy"}
	cfg := testConfig()

	a, err := BuildFace(items, cfg, 2)
	require.NoError(t, err)
	b, err := BuildFace(items, cfg, 2)
	require.NoError(t, err)

	assert.Equal(t, a.Sectors, b.Sectors)
	assert.Equal(t, a.Image.Pix, b.Image.Pix)
	assert.Equal(t, "Ale…", a.Sectors[0].Label)
	assert.Equal(t, "Alexandra", a.Item(0))
}

func TestBuildFaceCopiesItems(t *testing.T) {
	items := []string{"A", "B"}
	f, err := BuildFace(items, testConfig(), 1)
	require.NoError(t, err)
	items[0] = "Z"
	assert.Equal(t, "A", f.Item(0))
	assert.Equal(t, "", f.Item(5))
}

func TestBuildFaceLabelThreshold(t *testing.T) {
	items := []string{"Wide label", "Wide label", "Wide label", "Wide label"}
	cfg := testConfig()

	shown, err := BuildFace(items, cfg, 1)
	require.NoError(t, err)

	cfg.ShowLabelsWhenLessThan = 3
	hidden, err := BuildFace(items, cfg, 1)
	require.NoError(t, err)
	assert.NotEqual(t, shown.Image.Pix, hidden.Image.Pix)

	cfg.ForceShowLabels = true
	forced, err := BuildFace(items, cfg, 1)
	require.NoError(t, err)
	assert.Equal(t, shown.Image.Pix, forced.Image.Pix)
}

func TestBuildFaceEmptyItems(t *testing.T) {
	cfg := testConfig()
	f, err := BuildFace(nil, cfg, 1)
	require.NoError(t, err)
	require.Equal(t, 1, f.N())

	red := color.RGBA{R: 0xff, A: 0xff}
	for _, a := range []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
		sin, cos := math.Sincos(a)
		assert.Equal(t, red, f.Image.RGBAAt(int(100+50*cos), int(100+50*sin)))
	}
}

func TestBuildFaceRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Palette = []string{"bogus"}
	_, err := BuildFace([]string{"A"}, cfg, 1)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Size = 0
	_, err = BuildFace([]string{"A"}, cfg, 1)
	assert.Error(t, err)
}

func TestRenderHighlight(t *testing.T) {
	f, err := BuildFace([]string{"A", "B", "C", "D"}, testConfig(), 1)
	require.NoError(t, err)

	h := RenderHighlight(f, 2)
	assert.Equal(t, f.Image.Bounds(), h.Bounds())

	pixelAt := func(i int) color.RGBA {
		c := 100.0
		sin, cos := math.Sincos(f.Sectors[i].Mid())
		return h.RGBAAt(int(c+40*cos), int(c+40*sin))
	}
	assert.InDelta(t, 115, int(pixelAt(2).A), 5)
	assert.Equal(t, uint8(0), pixelAt(0).A)

	empty := RenderHighlight(f, 9)
	assert.Equal(t, image.Rect(0, 0, 200, 200), empty.Bounds())
	assert.Equal(t, uint8(0), empty.RGBAAt(100, 100).A)
}
