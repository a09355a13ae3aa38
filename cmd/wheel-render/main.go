// Command wheel-render spins a wheel offline and writes the animation as PNG
// frames and, optionally, an animated GIF.
//
// Usage:
//
//	wheel-render -items names.txt -index 3 -out frames/ -gif spin.gif
package main

import (
	"flag"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/export"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a wheel YAML config")
		itemsPath  = flag.String("items", "", "item list, one per line")
		index      = flag.Int("index", -1, "sector to land on (-1 = random)")
		outDir     = flag.String("out", "", "output directory for PNG frames")
		gifPath    = flag.String("gif", "", "output GIF path")
		fps        = flag.Int("fps", 30, "simulated frames per second")
		every      = flag.Int("every", 1, "keep one frame in every N")
		dpr        = flag.Float64("dpr", 1, "device pixel ratio of the output")
		debug      = flag.Bool("v", false, "debug logging")
		overrides  config.Overrides
	)
	overrides.RegisterFlags(flag.CommandLine)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Resolve(*configPath, overrides)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	items, err := config.Items(*itemsPath, flag.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("items")
	}
	if *outDir == "" && *gifPath == "" {
		log.Fatal().Msg("nothing to write: set -out and/or -gif")
	}

	target := *index
	if target < 0 {
		target = rand.IntN(max(1, len(items)))
	}

	start := time.Now()
	res, err := export.Run(items, cfg, target, export.Options{
		FPS:   *fps,
		Every: *every,
		DPR:   *dpr,
		Log:   &log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Int("index", target).Msg("render")
	}
	log.Info().
		Int("index", res.Final).
		Int("ticks", res.Ticks).
		Int("frames", len(res.Frames)).
		Dur("took", time.Since(start)).
		Msg("spin rendered")

	if *outDir != "" {
		if err := export.WritePNGs(*outDir, res.Frames); err != nil {
			log.Fatal().Err(err).Msg("png")
		}
		log.Info().Str("dir", *outDir).Msg("frames written")
	}
	if *gifPath != "" {
		f, err := os.Create(*gifPath)
		if err != nil {
			log.Fatal().Err(err).Msg("gif")
		}
		delay := time.Second * time.Duration(max(1, *every)) / time.Duration(max(1, *fps))
		if err := export.WriteGIF(f, res.Frames, delay); err != nil {
			f.Close()
			log.Fatal().Err(err).Msg("gif")
		}
		if err := f.Close(); err != nil {
			log.Fatal().Err(err).Msg("gif")
		}
		log.Info().Str("path", *gifPath).Msg("gif written")
	}
}
