package sound

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// tone is a sine note with an exponential decay envelope.
type tone struct {
	freq     float64
	decay    float64 // envelope time constant, seconds
	gain     float64
	rate     beep.SampleRate
	duration int
	position int
}

// Tone returns a decaying sine of the given frequency and length.
func Tone(rate beep.SampleRate, freq float64, d time.Duration, decay time.Duration, gain float64) beep.Streamer {
	return &tone{
		freq:     freq,
		decay:    decay.Seconds(),
		gain:     gain,
		rate:     rate,
		duration: rate.N(d),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.position >= t.duration {
		return 0, false
	}
	for i := range samples {
		if t.position >= t.duration {
			return i, true
		}
		sec := float64(t.position) / float64(t.rate)
		val := t.gain * math.Exp(-sec/t.decay) * math.Sin(2*math.Pi*t.freq*sec)
		samples[i][0] = val
		samples[i][1] = val
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Click is the short tick played when a sector passes the pointer.
func Click(rate beep.SampleRate) beep.Streamer {
	return Tone(rate, 1800, 18*time.Millisecond, 4*time.Millisecond, 0.35)
}

// Chime is the two-note fanfare played when a spin settles.
func Chime(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		Tone(rate, 659.25, 140*time.Millisecond, 90*time.Millisecond, 0.4),
		Tone(rate, 987.77, 420*time.Millisecond, 180*time.Millisecond, 0.4),
	)
}
