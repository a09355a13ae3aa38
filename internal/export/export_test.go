package export

import (
	"bytes"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/spinwheel/internal/config"
)

func quickConfig() config.Wheel {
	c := config.Default()
	c.SpinDurationMs = 600
	c.Revolutions = 2
	c.Background = "#ffffff"
	return c
}

func TestRunLandsOnIndex(t *testing.T) {
	items := []string{"A", "B", "C", "D", "E"}
	for idx := range items {
		res, err := Run(items, quickConfig(), idx, Options{FPS: 30, Every: 3})
		require.NoError(t, err)
		assert.Equal(t, idx, res.Final)
		assert.NotEmpty(t, res.Frames)
		// 600ms spin + 6 blink toggles of 80ms + 80ms settle, at 30 fps
		assert.InDelta(t, 35, res.Ticks, 2)
	}
}

func TestRunRejectsBadIndex(t *testing.T) {
	_, err := Run([]string{"A"}, quickConfig(), 3, Options{})
	assert.Error(t, err)
}

func TestRecorderKeepsEveryNth(t *testing.T) {
	res, err := Run([]string{"A", "B"}, quickConfig(), 1, Options{FPS: 60, Every: 1})
	require.NoError(t, err)
	all := len(res.Frames)

	res, err = Run([]string{"A", "B"}, quickConfig(), 1, Options{FPS: 60, Every: 4})
	require.NoError(t, err)
	assert.Equal(t, (all+3)/4, len(res.Frames))
	assert.Equal(t, 200, res.Frames[0].Bounds().Dx())
}

func TestWriteGIF(t *testing.T) {
	res, err := Run([]string{"A", "B", "C"}, quickConfig(), 2, Options{FPS: 20, Every: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGIF(&buf, res.Frames, 100*time.Millisecond))

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, g.Image, len(res.Frames))
	assert.Equal(t, 10, g.Delay[0])
	assert.Equal(t, 200, g.Delay[len(g.Delay)-1])

	assert.Error(t, WriteGIF(&buf, nil, time.Second))
}

func TestWritePNGs(t *testing.T) {
	res, err := Run([]string{"A", "B"}, quickConfig(), 0, Options{FPS: 10, Every: 5})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "frames")
	require.NoError(t, WritePNGs(dir, res.Frames))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(res.Frames))
	assert.Equal(t, "frame_000.png", entries[0].Name())
}
