package game_test

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
	"github.com/plus3/veggietd/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetWalksPathAndEscapes(t *testing.T) {
	cfg := emptyConfig()
	cfg.Bases = game.BaseGrid{}
	g := startGame(t, cfg)

	id := spawnTarget(g, mgl32.Vec3{0, 0.4, 2.5}, 0.45, 3)

	var indices []int
	lastIndex := 0
	escapedOn := -1
	for i := 0; i < 1000; i++ {
		report := g.Tick(tick)
		target := ecs.ReadComponent[game.Target](g.Storage(), id)
		if target == nil {
			assert.Equal(t, 1, report.Escapes)
			escapedOn = i
			break
		}
		require.GreaterOrEqual(t, target.PathIndex, lastIndex, "path index went backwards")
		if target.PathIndex != lastIndex {
			indices = append(indices, target.PathIndex)
			lastIndex = target.PathIndex
		}
	}

	require.NotEqual(t, -1, escapedOn, "target never escaped")
	assert.Equal(t, []int{1, 2}, indices)
	assert.Equal(t, cfg.StartingHealth-1, g.Player().Health)
	assert.Equal(t, game.InGame, g.State())
	assert.Equal(t, 1, g.Session().Escapes)

	// 6.02 + 4 + 4.24 units at 0.045 per tick, plus one arrival tick each
	assert.InDelta(t, 318, escapedOn, 10)
}

func TestTargetFacesWaypoint(t *testing.T) {
	cfg := emptyConfig()
	g := startGame(t, cfg)

	id := spawnTarget(g, mgl32.Vec3{6, 0.4, 0}, 1, 3)
	g.Tick(tick)

	transform := ecs.ReadComponent[game.Transform](g.Storage(), id)
	require.NotNil(t, transform)
	assert.InDelta(t, 0.1, transform.Translation.Z(), 1e-5)
	assert.InDelta(t, 6, transform.Translation.X(), 1e-5)
	assert.InDelta(t, 0.4, transform.Translation.Y(), 1e-5)

	forward := transform.Forward()
	assert.InDelta(t, 0, forward.X(), 1e-5)
	assert.InDelta(t, 1, forward.Z(), 1e-5)
	assert.InDelta(t, 0, forward.Y(), 1e-5)
}

func TestDeadTargetsAreReapedWithinOneTick(t *testing.T) {
	sink := &countingSink{}
	g := startGame(t, emptyConfig(), game.WithSink(sink))

	alive := spawnTarget(g, mgl32.Vec3{0, 0, 0}, 0, 3)
	dead := spawnTarget(g, mgl32.Vec3{1, 0, 0}, 0, 3)
	ecs.ReadComponent[game.Health](g.Storage(), dead).Value = 0

	report := g.Tick(tick)
	assert.Equal(t, 1, report.Deaths)
	assert.False(t, g.Storage().Alive(dead))
	assert.True(t, g.Storage().Alive(alive))
	assert.Equal(t, 1, sink.deaths)
	assert.Equal(t, uint32(110), g.Player().Money)

	for _, target := range g.Targets() {
		assert.NotEqual(t, dead, target.Id)
	}
}

func TestDeadTargetDoesNotAlsoEscape(t *testing.T) {
	g := startGame(t, emptyConfig())

	id := spawnTarget(g, mgl32.Vec3{}, 0, 0)
	ecs.ReadComponent[game.Target](g.Storage(), id).PathIndex = 3

	report := g.Tick(tick)
	assert.Equal(t, 1, report.Deaths)
	assert.Equal(t, 0, report.Escapes)
	assert.Equal(t, 10, g.Player().Health)
}

func TestKillRewardDisabled(t *testing.T) {
	cfg := emptyConfig()
	cfg.KillReward = 0
	g := startGame(t, cfg)

	spawnTarget(g, mgl32.Vec3{}, 0, 0)
	g.Tick(tick)
	assert.Equal(t, cfg.StartingMoney, g.Player().Money)
	assert.Equal(t, 1, g.Session().Kills)
}

func TestEscapeChargesOneHealthPerTarget(t *testing.T) {
	sink := &countingSink{}
	g := startGame(t, emptyConfig(), game.WithSink(sink))

	for i := 0; i < 3; i++ {
		id := spawnTarget(g, mgl32.Vec3{float32(i), 0, 0}, 0, 3)
		ecs.ReadComponent[game.Target](g.Storage(), id).PathIndex = 3
	}

	report := g.Tick(tick)
	assert.Equal(t, 3, report.Escapes)
	assert.Equal(t, 7, g.Player().Health)
	assert.Equal(t, 3, sink.damages)
	assert.Empty(t, g.Targets())
}

func TestEscapeToGameOver(t *testing.T) {
	cfg := emptyConfig()
	cfg.StartingHealth = 1
	g := startGame(t, cfg)

	base := onlyBase(t, g)
	_, ok := g.Purchase(base.Id, game.Tomato)
	require.True(t, ok)

	for i := 0; i < 2; i++ {
		id := spawnTarget(g, mgl32.Vec3{}, 0, 3)
		ecs.ReadComponent[game.Target](g.Storage(), id).PathIndex = 3
	}
	survivor := spawnTarget(g, mgl32.Vec3{0, 0, 2}, 1, 3)

	report := g.Tick(tick)
	assert.Equal(t, game.InGame, report.Before)
	assert.Equal(t, game.GameOver, report.After)
	assert.Equal(t, game.GameOver, g.State())
	assert.Equal(t, 2, report.Escapes)
	assert.Equal(t, 0, g.Player().Health)

	before := ecs.ReadComponent[game.Transform](g.Storage(), survivor).Translation
	total := ticks(g, 20)
	after := ecs.ReadComponent[game.Transform](g.Storage(), survivor).Translation

	assert.Equal(t, before, after)
	assert.Zero(t, total.Shots)
	assert.Empty(t, g.Bullets())
	assert.Equal(t, game.GameOver, total.After)

	_, ok = g.Purchase(base.Id, game.Tomato)
	assert.False(t, ok)
	assert.False(t, g.Start())

	for _, st := range g.Scheduler().GetStats().Systems {
		assert.Equal(t, int64(20), st.SkipCount, st.Name)
	}
}

func TestTowerFiresOncePerPeriod(t *testing.T) {
	g := startGame(t, emptyConfig())
	_, ok := g.Purchase(onlyBase(t, g).Id, game.Tomato)
	require.True(t, ok)

	spawnTarget(g, mgl32.Vec3{3, 0, 3}, 0, 100)

	// first shot one full period after purchase
	assert.Zero(t, ticks(g, 4).Shots)
	assert.Equal(t, 1, ticks(g, 1).Shots)
	assert.Equal(t, 1, ticks(g, 5).Shots)
	assert.Len(t, g.Bullets(), 2)

	// one long tick never fires more than once
	assert.Equal(t, 1, g.Tick(2*time.Second).Shots)
}

func TestTowerWithoutTargetsNeverFires(t *testing.T) {
	g := startGame(t, emptyConfig())
	_, ok := g.Purchase(onlyBase(t, g).Id, game.Cabbage)
	require.False(t, ok, "cabbage costs more than the starting money")

	_, ok = g.Purchase(onlyBase(t, g).Id, game.Potato)
	require.True(t, ok)

	assert.Zero(t, ticks(g, 50).Shots)
	assert.Empty(t, g.Bullets())
}

func TestTowerTargetsNearest(t *testing.T) {
	g := startGame(t, emptyConfig())
	_, ok := g.Purchase(onlyBase(t, g).Id, game.Tomato)
	require.True(t, ok)

	// spawn point is the base position plus the bullet offset
	spawnTarget(g, mgl32.Vec3{5, 0.2, 0}, 0, 3)
	near := spawnTarget(g, mgl32.Vec3{0, 0.2, 2}, 0, 3)
	spawnTarget(g, mgl32.Vec3{-8, 0.2, 0}, 0, 3)

	report := ticks(g, 5)
	require.Equal(t, 1, report.Shots)

	bullets := g.Bullets()
	require.Len(t, bullets, 1)
	bullet := ecs.ReadComponent[game.Bullet](g.Storage(), bullets[0].Id)
	require.NotNil(t, bullet)
	assert.InDelta(t, 0, bullet.Direction.X(), 1e-6)
	assert.InDelta(t, 0, bullet.Direction.Y(), 1e-6)
	assert.InDelta(t, 1, bullet.Direction.Z(), 1e-6)
	assert.Equal(t, float32(3.5), bullet.Speed)
	assert.True(t, bullet.Launcher.Valid())
	assert.InDelta(t, 0.2, bullets[0].Position.Y(), 1e-6)

	// the target moving away does not steer the bullet
	ecs.ReadComponent[game.Transform](g.Storage(), near).Translation = mgl32.Vec3{4, 0.2, 4}
	g.Tick(tick)
	bullet = ecs.ReadComponent[game.Bullet](g.Storage(), bullets[0].Id)
	require.NotNil(t, bullet)
	assert.InDelta(t, 1, bullet.Direction.Z(), 1e-6)
}

func TestTowerTieBreakIsFirstSeen(t *testing.T) {
	g := startGame(t, emptyConfig())
	_, ok := g.Purchase(onlyBase(t, g).Id, game.Tomato)
	require.True(t, ok)

	spawnTarget(g, mgl32.Vec3{2, 0.2, 0}, 0, 3)
	spawnTarget(g, mgl32.Vec3{-2, 0.2, 0}, 0, 3)

	ticks(g, 5)
	bullets := g.Bullets()
	require.Len(t, bullets, 1)
	bullet := ecs.ReadComponent[game.Bullet](g.Storage(), bullets[0].Id)
	assert.InDelta(t, 1, bullet.Direction.X(), 1e-6)
}

func TestBulletsFlyStraightAndExpire(t *testing.T) {
	cfg := emptyConfig()
	g := startGame(t, cfg)

	id := g.Storage().Spawn(
		game.NewTransform(mgl32.Vec3{}),
		game.Bullet{Direction: mgl32.Vec3{0.6, 0, 0.8}, Speed: 2},
		game.Lifetime{Timer: game.NewTimer(time.Second, game.Once)},
	)

	assert.Zero(t, ticks(g, 9).Expired)
	pos := ecs.ReadComponent[game.Transform](g.Storage(), id).Translation
	assert.InDelta(t, 1.08, pos.X(), 1e-4)
	assert.InDelta(t, 1.44, pos.Z(), 1e-4)

	assert.Equal(t, 1, g.Tick(tick).Expired)
	assert.False(t, g.Storage().Alive(id))
}

func TestFiredBulletsUseConfiguredLifetime(t *testing.T) {
	cfg := emptyConfig()
	cfg.BulletLifetime = time.Second
	g := startGame(t, cfg)
	_, ok := g.Purchase(onlyBase(t, g).Id, game.Tomato)
	require.True(t, ok)
	target := spawnTarget(g, mgl32.Vec3{0, 0.2, 50}, 0, 3)

	ticks(g, 5)
	require.Len(t, g.Bullets(), 1)
	g.Storage().Delete(target)

	// spawned at the end of tick 5, gone ten ticks later
	assert.Zero(t, ticks(g, 9).Expired)
	assert.Equal(t, 1, ticks(g, 1).Expired)
	assert.Empty(t, g.Bullets())
}

func TestApplyHit(t *testing.T) {
	g := startGame(t, emptyConfig())
	storage := g.Storage()

	target := spawnTarget(g, mgl32.Vec3{}, 0, 1)
	bullet := storage.Spawn(
		game.NewTransform(mgl32.Vec3{}),
		game.Bullet{Direction: mgl32.Vec3{1, 0, 0}, Speed: 1},
		game.Lifetime{Timer: game.NewTimer(time.Second, game.Once)},
	)

	frame := &ecs.UpdateFrame{Storage: storage, Commands: &ecs.Commands{}}
	require.True(t, game.ApplyHit(frame, bullet, target))
	assert.False(t, game.ApplyHit(frame, bullet, target), "target already dead")
	frame.Commands.Flush(storage)

	assert.False(t, storage.Alive(bullet))
	assert.Equal(t, 0, ecs.ReadComponent[game.Health](storage, target).Value)

	report := g.Tick(tick)
	assert.Equal(t, 1, report.Deaths)
	assert.False(t, storage.Alive(target))
	assert.False(t, game.ApplyHit(frame, bullet, target))
}
