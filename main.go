package main

import (
	"errors"
	"flag"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/game"
	"github.com/iburimskiy/spinwheel/internal/sound"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a wheel YAML config")
		itemsPath  = flag.String("items", "", "participant list, one per line")
		seed       = flag.Uint64("seed", 0, "random seed for draws (0 = random)")
		debug      = flag.Bool("v", false, "debug logging")
		overrides  config.Overrides
	)
	overrides.RegisterFlags(flag.CommandLine)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Resolve(*configPath, overrides)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("config")
	}
	if cfg.Size < config.MinWheelSize || cfg.Size > config.MaxWheelSize {
		cfg = cfg.Resized(cfg.Size)
		log.Warn().Int("size", cfg.Size).Msg("wheel size clamped to the window")
	}

	items, err := config.Items(*itemsPath, flag.Args())
	if err != nil {
		log.Fatal().Err(err).Str("path", *itemsPath).Msg("items")
	}

	player, err := sound.Open(cfg.Sounds, log.Logger)
	if err != nil {
		// non-fatal, the wheel runs silent
		log.Warn().Err(err).Msg("audio unavailable")
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}

	g, err := game.New(game.Options{
		Config:    cfg,
		Items:     items,
		ItemsPath: *itemsPath,
		Player:    player,
		Logger:    log.Logger,
		Rand:      rng,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("wheel")
	}
	defer g.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Spin Wheel - Space: spin, Enter: present, Esc/Q: quit")
	ebiten.SetTPS(config.TicksPerSecond)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("game")
	}
}
