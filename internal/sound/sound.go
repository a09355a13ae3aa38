// Package sound plays the pass ticks and the win chime of a spinning wheel.
// Samples can come from wav, mp3 or flac files; without files they are
// synthesized.
package sound

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/spinwheel/internal/config"
)

const (
	SampleRate = beep.SampleRate(44100)

	// ticks closer together than this are dropped; a fast wheel passes
	// several sectors per frame
	minTickGap = 30 * time.Millisecond
)

var ErrUnsupported = errors.New("unsupported audio file type")

// Format is the format every sample is converted to before playback.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// Player is what the hosts need from the audio side.
type Player interface {
	Tick()
	Win()
	Close()
}

// Nop is a silent Player.
type Nop struct{}

func (Nop) Tick()  {}
func (Nop) Win()   {}
func (Nop) Close() {}

// Decode opens path and decodes it by file extension.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return streamer, format, nil
}

// Load decodes a sample file fully into memory at Format's sample rate.
func Load(path string) (*beep.Buffer, error) {
	streamer, format, err := Decode(path)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, streamer)
	}
	buf := beep.NewBuffer(Format)
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}

// Bank holds the two sounds of a wheel, ready to play.
type Bank struct {
	Tick *beep.Buffer
	Win  *beep.Buffer
}

// LoadBank loads the samples named in cfg, synthesizing the ones left empty.
func LoadBank(cfg config.Sounds) (*Bank, error) {
	b := &Bank{}
	var err error
	if b.Tick, err = sample(cfg.Tick, Click); err != nil {
		return nil, fmt.Errorf("tick sound: %w", err)
	}
	if b.Win, err = sample(cfg.Win, Chime); err != nil {
		return nil, fmt.Errorf("win sound: %w", err)
	}
	return b, nil
}

func sample(path string, synth func(beep.SampleRate) beep.Streamer) (*beep.Buffer, error) {
	if path != "" {
		return Load(path)
	}
	buf := beep.NewBuffer(Format)
	buf.Append(synth(SampleRate))
	return buf, nil
}

// Speaker plays a Bank through the system audio device. All sounds go
// through one mixer so overlapping ticks are summed, not queued.
type Speaker struct {
	mu       sync.Mutex
	bank     *Bank
	mixer    *beep.Mixer
	lastTick time.Time
	closed   bool
	log      zerolog.Logger
}

// Open initializes the speaker and starts the mixer. Audio is optional for
// every host: callers fall back to Nop when Open fails.
func Open(cfg config.Sounds, log zerolog.Logger) (Player, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}
	bank, err := LoadBank(cfg)
	if err != nil {
		return Nop{}, err
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return Nop{}, fmt.Errorf("speaker init: %w", err)
	}
	s := &Speaker{
		bank:  bank,
		mixer: &beep.Mixer{},
		log:   log.With().Str("component", "sound").Logger(),
	}
	speaker.Play(s.mixer)
	s.log.Debug().Int("rate", int(SampleRate)).Msg("speaker ready")
	return s, nil
}

func (s *Speaker) play(buf *beep.Buffer) {
	speaker.Lock()
	s.mixer.Add(buf.Streamer(0, buf.Len()))
	speaker.Unlock()
}

// Tick plays the pass sound, rate limited.
func (s *Speaker) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	now := time.Now()
	if now.Sub(s.lastTick) < minTickGap {
		return
	}
	s.lastTick = now
	s.play(s.bank.Tick)
}

// Win plays the settle chime.
func (s *Speaker) Win() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.play(s.bank.Win)
}

// Close silences everything still playing.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
}
