// Command wheel-tui runs the raffle wheel in a terminal.
//
// Keys: Space spins, Enter presents the winner, Backspace dismisses it,
// / filters the participants by name, Esc or Ctrl-C quits.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iburimskiy/spinwheel/internal/config"
	"github.com/iburimskiy/spinwheel/internal/raffle"
	"github.com/iburimskiy/spinwheel/internal/sound"
	"github.com/iburimskiy/spinwheel/internal/spin"
	"github.com/iburimskiy/spinwheel/internal/surface"
)

var statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)

const helpText = "Space: spin  /: filter  Esc: quit"

type app struct {
	screen  tcell.Screen
	ctrl    *spin.Controller
	session *raffle.Session
	player  sound.Player
	status  string

	filtering bool
	filter    []rune
}

func newApp(screen tcell.Screen, cfg config.Wheel, items []string, player sound.Player, logger *zerolog.Logger) (*app, error) {
	a := &app{screen: screen, session: raffle.NewSession(items), player: player}
	ctrl, err := spin.New(a.session.Participants(), cfg, surface.NewTerminal(screen, cfg, logger), spin.Options{
		Logger:       logger,
		OnSpinEnd:    a.onSpinEnd,
		OnSectorPass: func(int) { a.player.Tick() },
	})
	if err != nil {
		return nil, err
	}
	a.ctrl = ctrl
	a.status = fmt.Sprintf("%d participants  %s", len(a.session.Participants()), helpText)
	return a, nil
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a wheel YAML config")
		itemsPath  = flag.String("items", "", "participant list, one per line")
		logPath    = flag.String("log", "", "write logs to this file (the terminal is taken)")
		overrides  config.Overrides
	)
	overrides.RegisterFlags(flag.CommandLine)
	flag.Parse()

	log.Logger = zerolog.Nop()
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	}

	cfg, err := config.Resolve(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	items, err := config.Items(*itemsPath, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "items: %v\n", err)
		os.Exit(1)
	}
	if len(items) == 0 {
		items = raffle.ExampleNames
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	player, err := sound.Open(cfg.Sounds, log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("audio unavailable")
	}
	defer player.Close()

	a, err := newApp(screen, cfg, items, player, &log.Logger)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "wheel: %v\n", err)
		os.Exit(1)
	}
	defer a.ctrl.Close()

	a.run()
}

func (a *app) onSpinEnd(index int) error {
	name, ok := a.session.Land(index)
	if !ok {
		return fmt.Errorf("wheel stopped outside the list at %d", index)
	}
	a.player.Win()
	a.status = "Winner: " + name + "  (Enter: present, Backspace: dismiss)"
	return nil
}

func (a *app) run() {
	ticker := time.NewTicker(time.Second / config.TicksPerSecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !a.handle(ev) {
				return
			}
		case <-ticker.C:
			if err := a.ctrl.Tick(); err != nil {
				log.Error().Err(err).Msg("tick")
				a.status = err.Error()
			}
			a.drawStatus()
		}
	}
}

func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if a.filtering {
			a.editFilter(ev)
			return true
		}
		switch {
		case ev.Key() == tcell.KeyEscape:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == '/':
			a.filtering = true
			a.filter = a.filter[:0]
			a.status = a.filterStatus()
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ' && a.ctrl.State() == spin.Idle:
			idx, err := a.session.Draw(nil)
			if err == nil {
				err = a.ctrl.Spin(idx)
			}
			if err != nil {
				a.status = err.Error()
				return true
			}
			a.status = ""
		case ev.Key() == tcell.KeyEnter:
			if name, ok := a.session.Confirm(); ok {
				if err := a.ctrl.SetItems(a.session.Participants()); err != nil {
					log.Error().Err(err).Msg("items")
				}
				a.status = fmt.Sprintf("%s presented, %d left", name, len(a.session.Participants()))
			}
		case ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2:
			a.session.Dismiss()
			a.status = "dismissed"
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.ctrl.Redraw()
	}
	return true
}

// editFilter handles keys while a filter is being typed: runes extend it,
// Backspace shortens it, Enter keeps it and Esc drops it.
func (a *app) editFilter(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		a.filter = append(a.filter, ev.Rune())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.filter) > 0 {
			a.filter = a.filter[:len(a.filter)-1]
		}
	case tcell.KeyEnter:
		a.filtering = false
	case tcell.KeyEscape:
		a.filtering = false
		a.filter = a.filter[:0]
		a.status = fmt.Sprintf("%d participants  %s", len(a.session.Participants()), helpText)
		return
	}
	a.status = a.filterStatus()
}

// filterStatus lists the participants and winners matching the filter.
func (a *app) filterStatus() string {
	participants, winners := a.session.Search(string(a.filter))
	s := fmt.Sprintf("/%s  %d on wheel", string(a.filter), len(participants))
	if len(participants) > 0 {
		s += ": " + strings.Join(participants, ", ")
	}
	if len(winners) > 0 {
		s += fmt.Sprintf("  %d won: %s", len(winners), strings.Join(winners, ", "))
	}
	return s
}

// drawStatus writes the status on the bottom row while the wheel is at rest;
// during a spin that row carries the readout.
func (a *app) drawStatus() {
	if a.ctrl.State() != spin.Idle {
		return
	}
	w, h := a.screen.Size()
	runes := []rune(a.status)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		a.screen.SetContent(x, h-1, r, nil, statusStyle)
	}
	a.screen.Show()
}
