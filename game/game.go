package game

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
)

// Game owns one simulation: the entity storage, the system pipeline and the
// state machine that gates it. All methods must be called from a single
// goroutine, and never from inside a system.
type Game struct {
	cfg    Config
	logger *slog.Logger
	sink   Sink
	extra  []ecs.System

	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	player    *ecs.Singleton[Player]
	state     *ecs.Singleton[StateMachine]
	selection *ecs.Singleton[Selection]
	session   *ecs.Singleton[Session]
	path      *ecs.Singleton[WaypointPath]

	died    *ecs.Events[TargetDied]
	damaged *ecs.Events[PlayerDamaged]
	fired   *ecs.Events[TowerFired]
	expired *ecs.Events[BulletExpired]
	hits    *ecs.Events[BulletHit]

	targets *ecs.View[targetView]
	towers  *ecs.View[towerView]
	bases   *ecs.View[baseView]
	bullets *ecs.View[bulletView]
}

type targetView struct {
	ecs.EntityId
	*Transform
	*Target
	*Health
}

type towerView struct {
	ecs.EntityId
	*Transform
	*Tower
}

type baseView struct {
	ecs.EntityId
	*Transform
	*TowerBase
}

type bulletView struct {
	ecs.EntityId
	*Transform
	*Bullet
}

type Option func(*Game)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithSink routes death and escape notifications to sink.
func WithSink(sink Sink) Option {
	return func(g *Game) { g.sink = sink }
}

// WithSystems appends systems to the InGame pipeline after the core
// systems, e.g. a collision system that calls ApplyHit.
func WithSystems(systems ...ecs.System) Option {
	return func(g *Game) { g.extra = append(g.extra, systems...) }
}

// New validates cfg and builds a game in the MainMenu state.
func New(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	g := &Game{
		cfg:    cfg,
		logger: slog.Default(),
		sink:   nopSink{},
	}
	for _, opt := range opts {
		opt(g)
	}

	g.storage = ecs.NewStorage(NewRegistry())
	g.scheduler = ecs.NewScheduler(g.storage)

	ecs.NewSingleton[Config](g.storage, cfg)
	g.player = ecs.NewSingleton[Player](g.storage)
	g.state = ecs.NewSingleton[StateMachine](g.storage)
	g.selection = ecs.NewSingleton[Selection](g.storage)
	g.session = ecs.NewSingleton[Session](g.storage)
	g.path = ecs.NewSingleton[WaypointPath](g.storage, NewWaypointPath(cfg.Path))

	g.died = ecs.NewEvents[TargetDied](g.storage)
	g.damaged = ecs.NewEvents[PlayerDamaged](g.storage)
	g.fired = ecs.NewEvents[TowerFired](g.storage)
	g.expired = ecs.NewEvents[BulletExpired](g.storage)
	g.hits = ecs.NewEvents[BulletHit](g.storage)

	g.targets = ecs.NewView[targetView](g.storage)
	g.towers = ecs.NewView[towerView](g.storage)
	g.bases = ecs.NewView[baseView](g.storage)
	g.bullets = ecs.NewView[bulletView](g.storage)

	playing := InState(InGame)
	for _, system := range []ecs.System{
		&targetMover{},
		&healthTracker{},
		&escapeSystem{},
		&towerTargeting{},
		&bulletMover{},
		&killReward{},
		&shopSync{},
		&notifier{sink: g.sink},
	} {
		g.scheduler.Register(system, playing)
	}
	for _, system := range g.extra {
		g.scheduler.Register(system, playing)
	}
	g.scheduler.Register(&sessionCounter{}, playing)

	return g, nil
}

// TickReport summarises one call to Tick.
type TickReport struct {
	Before, After GameState
	Deaths        int
	Escapes       int
	Shots         int
	Expired       int
	Hits          int
}

// Tick advances the simulation by dt. Systems only run while InGame; a
// transition requested during the tick (GameOver) is applied once the tick
// has completed.
func (g *Game) Tick(dt time.Duration) TickReport {
	report := TickReport{Before: g.State()}

	g.scheduler.Once(dt)

	report.Deaths = g.died.Len()
	report.Escapes = g.damaged.Len()
	report.Shots = g.fired.Len()
	report.Expired = g.expired.Len()
	report.Hits = g.hits.Len()

	g.applyTransition()
	report.After = g.State()
	return report
}

// Start requests MainMenu -> InGame and applies it immediately, running
// session setup. Returns false if the game is not in the main menu.
func (g *Game) Start() bool {
	if !g.request(InGame) {
		return false
	}
	g.applyTransition()
	return true
}

func (g *Game) request(next GameState) bool {
	sm := g.state.Get()
	if !sm.Request(next) {
		g.logger.Warn("rejected state transition", "from", sm.Current(), "to", next)
		return false
	}
	return true
}

func (g *Game) applyTransition() {
	from, to, ok := g.state.Get().apply()
	if !ok {
		return
	}
	g.logger.Info("state transition", "from", from, "to", to)

	switch to {
	case InGame:
		g.setupSession()
	case GameOver:
		s := g.session.Get()
		g.logger.Info("game over",
			"elapsed", s.Elapsed, "kills", s.Kills, "escapes", s.Escapes, "towers", s.TowersBought)
	}
}

// setupSession clears whatever a previous session left behind and spawns
// the wave and the tower bases.
func (g *Game) setupSession() {
	for _, t := range []reflect.Type{
		reflect.TypeFor[Target](),
		reflect.TypeFor[Tower](),
		reflect.TypeFor[TowerBase](),
		reflect.TypeFor[Bullet](),
		reflect.TypeFor[ShopPanel](),
		reflect.TypeFor[ShopButton](),
	} {
		for _, archetype := range g.storage.Archetypes() {
			if !archetype.HasComponent(t) {
				continue
			}
			var ids []ecs.EntityId
			for id := range archetype.Iter() {
				ids = append(ids, id)
			}
			for _, id := range ids {
				g.storage.Delete(id)
			}
		}
	}

	*g.player.Get() = Player{Money: g.cfg.StartingMoney, Health: g.cfg.StartingHealth}
	*g.path.Get() = NewWaypointPath(g.cfg.Path)
	*g.selection.Get() = Selection{}
	*g.session.Get() = Session{}

	wave := g.cfg.Wave
	for i := 0; i < wave.Count; i++ {
		g.storage.Spawn(
			NewTransform(wave.Origin.Add(wave.Spacing.Mul(float32(i)))),
			Target{Speed: wave.Speed},
			Health{Value: wave.Health},
			Collider{HalfExtents: g.cfg.ColliderHalfExtents},
			Name{Value: "Target"},
		)
	}

	grid := g.cfg.Bases
	for i := 0; i < grid.Columns; i++ {
		for j := 0; j < grid.Rows; j++ {
			pos := grid.Origin.Add(grid.ColumnStep.Mul(float32(i))).Add(grid.RowStep.Mul(float32(j)))
			g.storage.Spawn(NewTransform(pos), TowerBase{}, Name{Value: "Tower_Base"})
		}
	}

	g.logger.Info("session started",
		"targets", wave.Count, "bases", grid.Columns*grid.Rows,
		"money", g.cfg.StartingMoney, "health", g.cfg.StartingHealth)
}

func (g *Game) State() GameState { return g.state.Get().Current() }

func (g *Game) Player() Player { return *g.player.Get() }

func (g *Game) Session() Session { return *g.session.Get() }

func (g *Game) Config() Config { return g.cfg }

func (g *Game) Path() WaypointPath { return *g.path.Get() }

// Select makes base the target of the shop. It must be a live tower base
// and the game must be InGame.
func (g *Game) Select(base ecs.EntityId) bool {
	if g.State() != InGame || g.bases.Get(base) == nil {
		return false
	}
	g.selection.Get().Base = g.storage.CreateEntityRef(base)
	return true
}

func (g *Game) ClearSelection() {
	g.selection.Get().Base = nil
}

// Selected returns the selected base, if it still exists.
func (g *Game) Selected() (ecs.EntityId, bool) {
	return g.storage.ResolveEntityRef(g.selection.Get().Base)
}

// Purchase replaces base with a freshly cooled-down tower of kind, debiting
// exactly its cost. It is a no-op returning false when not InGame, when base
// is not a live tower base, or when the player cannot afford the tower.
func (g *Game) Purchase(base ecs.EntityId, kind TowerKind) (ecs.EntityId, bool) {
	if g.State() != InGame {
		g.logger.Debug("purchase rejected", "reason", "not in game", "state", g.State())
		return 0, false
	}
	stats, ok := g.cfg.Tower(kind)
	if !ok {
		g.logger.Debug("purchase rejected", "reason", "unknown kind", "kind", kind)
		return 0, false
	}
	slot := g.bases.Get(base)
	if slot == nil {
		g.logger.Debug("purchase rejected", "reason", "not a tower base", "entity", base)
		return 0, false
	}
	player := g.player.Get()
	if !player.CanAfford(stats.Cost) {
		g.logger.Debug("purchase rejected", "reason", "insufficient funds",
			"kind", kind, "cost", stats.Cost, "money", player.Money)
		return 0, false
	}

	player.Money -= stats.Cost
	pos := slot.Transform.Translation
	g.storage.Delete(base)

	tower := g.storage.Spawn(
		NewTransform(pos),
		Tower{
			Kind:         kind,
			Cooldown:     NewTimer(stats.Period, Repeating),
			BulletOffset: g.cfg.BulletOffset,
		},
		Name{Value: stats.Model + "_Tower"},
	)
	g.session.Get().TowersBought++
	g.logger.Debug("tower bought", "kind", kind, "cost", stats.Cost, "money", player.Money)
	return tower, true
}

// BuySelected purchases kind for the selected base.
func (g *Game) BuySelected(kind TowerKind) (ecs.EntityId, bool) {
	base, ok := g.Selected()
	if !ok {
		return 0, false
	}
	return g.Purchase(base, kind)
}

// ShopOption is one entry of the shop as the player should see it.
type ShopOption struct {
	Kind       TowerKind
	Cost       uint32
	Affordable bool
}

// ShopOptions recomputes affordability from the current money.
func (g *Game) ShopOptions() []ShopOption {
	player := g.Player()
	options := make([]ShopOption, 0, len(TowerKinds))
	for _, kind := range TowerKinds {
		stats, _ := g.cfg.Tower(kind)
		options = append(options, ShopOption{
			Kind:       kind,
			Cost:       stats.Cost,
			Affordable: player.CanAfford(stats.Cost),
		})
	}
	return options
}

type TargetInfo struct {
	Id        ecs.EntityId
	Position  mgl32.Vec3
	Forward   mgl32.Vec3
	PathIndex int
	Health    int
}

type TowerInfo struct {
	Id       ecs.EntityId
	Kind     TowerKind
	Position mgl32.Vec3
}

type BaseInfo struct {
	Id       ecs.EntityId
	Position mgl32.Vec3
	Selected bool
}

type BulletInfo struct {
	Id       ecs.EntityId
	Kind     TowerKind
	Position mgl32.Vec3
}

// Targets returns every target, in storage iteration order.
func (g *Game) Targets() []TargetInfo {
	var out []TargetInfo
	for t := range g.targets.Values() {
		out = append(out, TargetInfo{
			Id:        t.EntityId,
			Position:  t.Transform.Translation,
			Forward:   t.Transform.Forward(),
			PathIndex: t.Target.PathIndex,
			Health:    t.Health.Value,
		})
	}
	return out
}

func (g *Game) Towers() []TowerInfo {
	var out []TowerInfo
	for t := range g.towers.Values() {
		out = append(out, TowerInfo{Id: t.EntityId, Kind: t.Tower.Kind, Position: t.Transform.Translation})
	}
	return out
}

func (g *Game) Bases() []BaseInfo {
	selected, hasSelection := g.Selected()
	var out []BaseInfo
	for b := range g.bases.Values() {
		out = append(out, BaseInfo{
			Id:       b.EntityId,
			Position: b.Transform.Translation,
			Selected: hasSelection && selected == b.EntityId,
		})
	}
	return out
}

func (g *Game) Bullets() []BulletInfo {
	var out []BulletInfo
	for b := range g.bullets.Values() {
		out = append(out, BulletInfo{Id: b.EntityId, Kind: b.Bullet.Kind, Position: b.Transform.Translation})
	}
	return out
}

func (g *Game) Storage() *ecs.Storage { return g.storage }

func (g *Game) Scheduler() *ecs.Scheduler { return g.scheduler }

// Run ticks the game at interval until ctx is cancelled.
func (g *Game) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			g.Tick(now.Sub(last))
			last = now
		}
	}
}
