package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/plus3/veggietd/audio"
	"github.com/plus3/veggietd/game"
	"github.com/plus3/veggietd/physics"
	"github.com/plus3/veggietd/tui"
)

func main() {
	configPath := flag.String("config", "", "YAML config file; the reference scene if empty.")
	tick := flag.Duration("tick", 50*time.Millisecond, "Tick interval.")
	logPath := flag.String("log", "", "Write logs to this file instead of discarding them.")
	mute := flag.Bool("mute", false, "Disable sound.")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	sink := audio.NewSink(beep.SampleRate(44100))
	if !*mute {
		if err := sink.Open(); err != nil {
			// Non-fatal, the game runs without sound.
			logger.Warn("audio unavailable", "err", err)
		}
	}
	defer sink.Close()

	g, err := game.New(cfg,
		game.WithLogger(logger),
		game.WithSink(sink),
		game.WithSystems(physics.NewSystem()),
	)
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	run(screen, g, *tick)
}

func run(screen tcell.Screen, g *game.Game, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	controller := tui.NewController(g)
	renderer := tui.NewRenderer()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if controller.HandleKey(ev) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			g.Tick(now.Sub(last))
			last = now

			screen.Clear()
			renderer.Draw(screen, g)
			screen.Show()
		}
	}
}
