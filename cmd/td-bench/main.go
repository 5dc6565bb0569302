package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/plus3/veggietd/game"
	"github.com/plus3/veggietd/physics"
)

func main() {
	sessions := flag.Int("sessions", 4, "Number of independent games to run.")
	duration := flag.Duration("duration", 10*time.Second, "Wall-clock limit for each session.")
	tick := flag.Duration("tick", 100*time.Millisecond, "Simulated length of one tick.")
	maxSim := flag.Duration("max-sim", 10*time.Minute, "Simulated time after which a session is stopped.")
	configPath := flag.String("config", "", "YAML config file; the reference scene if empty.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	report := &Report{
		Sessions:       *sessions,
		Duration:       *duration,
		Tick:           *tick,
		MaxSim:         *maxSim,
		GCPauseMetrics: *gcPauseMetrics,
		TickTime:       Stats{Samples: make([]time.Duration, 0)},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running %d sessions...\n", *sessions)
	startTime := time.Now()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	for i := 0; i < *sessions; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), *duration)
		result, err := runSession(ctx, cfg, quiet, *tick, *maxSim, &report.TickTime)
		cancel()
		if err != nil {
			log.Fatalf("Session %d: %v", i, err)
		}
		result.Index = i
		report.Results = append(report.Results, result)
		log.Printf("Session %d finished in %s: %s after %d ticks\n", i, result.WallTime, result.Final, result.Ticks)
	}

	report.TotalTime = time.Since(startTime)
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n\n--- Simulation Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// runSession plays one game until it is over, the simulated time cap is
// hit or ctx expires. Towers are bought on free bases whenever the player
// can afford the most expensive kind it has money for.
func runSession(ctx context.Context, cfg game.Config, logger *slog.Logger, tick, maxSim time.Duration, samples *Stats) (SessionResult, error) {
	collisions := physics.NewSystem()
	g, err := game.New(cfg, game.WithLogger(logger), game.WithSystems(collisions))
	if err != nil {
		return SessionResult{}, err
	}
	g.Start()

	start := time.Now()
	var simulated time.Duration

Loop:
	for g.State() == game.InGame && simulated < maxSim {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		autoBuy(g)

		tickStart := time.Now()
		g.Tick(tick)
		samples.Samples = append(samples.Samples, time.Since(tickStart))
		simulated += tick
	}

	session := g.Session()
	player := g.Player()
	return SessionResult{
		Final:     g.State(),
		Ticks:     session.Ticks,
		Simulated: simulated,
		WallTime:  time.Since(start),
		Kills:     session.Kills,
		Escapes:   session.Escapes,
		Shots:     session.Shots,
		Hits:      session.Hits,
		Expired:   session.Expired,
		Towers:    session.TowersBought,
		Money:     player.Money,
		Health:    player.Health,
		Storage:   g.Storage().CollectStats(),
		Scheduler: g.Scheduler().GetStats(),
	}, nil
}

func autoBuy(g *game.Game) {
	var best *game.ShopOption
	options := g.ShopOptions()
	for i := range options {
		if options[i].Affordable && (best == nil || options[i].Cost > best.Cost) {
			best = &options[i]
		}
	}
	if best == nil {
		return
	}

	bases := g.Bases()
	if len(bases) == 0 {
		return
	}
	g.Purchase(bases[0].Id, best.Kind)
}
