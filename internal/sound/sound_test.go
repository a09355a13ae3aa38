package sound

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/spinwheel/internal/config"
)

// drain reads s to the end and returns the samples it produced.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func peak(samples [][2]float64) float64 {
	p := 0.0
	for _, s := range samples {
		p = math.Max(p, math.Abs(s[0]))
	}
	return p
}

func TestToneLengthAndEnvelope(t *testing.T) {
	s := drain(Tone(SampleRate, 440, 100*time.Millisecond, 20*time.Millisecond, 0.5))
	require.Len(t, s, SampleRate.N(100*time.Millisecond))
	assert.LessOrEqual(t, peak(s), 0.5)
	assert.Greater(t, peak(s[:500]), 0.3)
	assert.Less(t, peak(s[len(s)-500:]), 0.01)
	for _, x := range s {
		assert.Equal(t, x[0], x[1])
	}
}

func TestClickAndChime(t *testing.T) {
	click := drain(Click(SampleRate))
	assert.Len(t, click, SampleRate.N(18*time.Millisecond))
	assert.Greater(t, peak(click), 0.1)

	chime := drain(Chime(SampleRate))
	assert.Len(t, chime, SampleRate.N(140*time.Millisecond)+SampleRate.N(420*time.Millisecond))
}

func writeWav(t *testing.T, dir string, rate beep.SampleRate, d time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, "tick.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, Tone(rate, 880, d, d/4, 0.5), format))
	return path
}

func TestLoadResamples(t *testing.T) {
	path := writeWav(t, t.TempDir(), 22050, 100*time.Millisecond)

	buf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Format, buf.Format())
	assert.InDelta(t, SampleRate.N(100*time.Millisecond), buf.Len(), 16)
	assert.Greater(t, peak(drain(buf.Streamer(0, buf.Len()))), 0.2)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)

	ogg := filepath.Join(dir, "tick.ogg")
	require.NoError(t, os.WriteFile(ogg, []byte("OggS"), 0644))
	_, err = Load(ogg)
	assert.ErrorIs(t, err, ErrUnsupported)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("not a wave file"), 0644))
	_, err = Load(junk)
	assert.Error(t, err)
}

func TestLoadBank(t *testing.T) {
	bank, err := LoadBank(config.Sounds{})
	require.NoError(t, err)
	assert.Equal(t, SampleRate.N(18*time.Millisecond), bank.Tick.Len())
	assert.Greater(t, bank.Win.Len(), bank.Tick.Len())

	dir := t.TempDir()
	path := writeWav(t, dir, SampleRate, 50*time.Millisecond)
	bank, err = LoadBank(config.Sounds{Win: path})
	require.NoError(t, err)
	assert.Equal(t, SampleRate.N(50*time.Millisecond), bank.Win.Len())

	_, err = LoadBank(config.Sounds{Tick: filepath.Join(dir, "nope.mp3")})
	assert.Error(t, err)
}

func TestOpenDisabledIsSilent(t *testing.T) {
	p, err := Open(config.Sounds{Enabled: false}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Nop{}, p)
	p.Tick()
	p.Win()
	p.Close()
}
