package game_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
	"github.com/plus3/veggietd/game"
	"github.com/stretchr/testify/require"
)

const tick = 100 * time.Millisecond

type countingSink struct {
	deaths  int
	damages int
}

func (s *countingSink) TargetDied()    { s.deaths++ }
func (s *countingSink) PlayerDamaged() { s.damages++ }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// emptyConfig has the reference path and towers but no wave and a single
// base at the origin.
func emptyConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Wave.Count = 0
	cfg.Bases = game.BaseGrid{Columns: 1, Rows: 1}
	return cfg
}

func startGame(t *testing.T, cfg game.Config, opts ...game.Option) *game.Game {
	t.Helper()
	opts = append([]game.Option{game.WithLogger(quietLogger())}, opts...)
	g, err := game.New(cfg, opts...)
	require.NoError(t, err)
	require.True(t, g.Start())
	require.Equal(t, game.InGame, g.State())
	return g
}

func spawnTarget(g *game.Game, pos mgl32.Vec3, speed float32, health int) ecs.EntityId {
	return g.Storage().Spawn(
		game.NewTransform(pos),
		game.Target{Speed: speed},
		game.Health{Value: health},
		game.Collider{HalfExtents: mgl32.Vec3{0.2, 0.2, 0.2}},
	)
}

func onlyBase(t *testing.T, g *game.Game) game.BaseInfo {
	t.Helper()
	bases := g.Bases()
	require.Len(t, bases, 1)
	return bases[0]
}

func ticks(g *game.Game, n int) (total game.TickReport) {
	for i := 0; i < n; i++ {
		r := g.Tick(tick)
		total.Deaths += r.Deaths
		total.Escapes += r.Escapes
		total.Shots += r.Shots
		total.Expired += r.Expired
		total.Hits += r.Hits
		total.After = r.After
	}
	return total
}
