package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
)

// towerTargeting ticks every tower's cooldown and, when it elapses, fires
// one bullet at the nearest living target. Distance ties go to the target
// seen first.
type towerTargeting struct {
	Towers ecs.Query[struct {
		ecs.EntityId
		*Transform
		*Tower
	}]
	Targets ecs.Query[struct {
		ecs.EntityId
		*Transform
		*Target
		*Health
	}]
	Config ecs.Singleton[Config]
	Path   ecs.Singleton[WaypointPath]
	Fired  ecs.Events[TowerFired]
}

func (s *towerTargeting) Execute(frame *ecs.UpdateFrame) {
	cfg, path := s.Config.Get(), s.Path.Get()
	if cfg == nil || path == nil {
		return
	}

	for tower := range s.Towers.Values() {
		tower.Tower.Cooldown.Tick(frame.Delta)
		if !tower.Tower.Cooldown.JustFinished() {
			continue
		}

		spawn := tower.Transform.Translation.Add(tower.Tower.BulletOffset)
		target, aim, ok := s.nearest(spawn, path.Len())
		if !ok {
			continue
		}
		stats, ok := cfg.Tower(tower.Tower.Kind)
		if !ok {
			continue
		}

		direction := aim.Sub(spawn)
		if direction.Len() > 0 {
			direction = direction.Normalize()
		}

		frame.Commands.Spawn(
			NewTransform(spawn),
			Bullet{
				Direction: direction,
				Speed:     stats.BulletSpeed,
				Kind:      tower.Tower.Kind,
				Launcher:  frame.Storage.CreateEntityRef(tower.EntityId),
			},
			Lifetime{Timer: NewTimer(cfg.BulletLifetime, Once)},
			Collider{HalfExtents: cfg.ColliderHalfExtents},
			Name{Value: "Bullet"},
		)
		s.Fired.Send(TowerFired{
			Tower:     tower.EntityId,
			Kind:      tower.Tower.Kind,
			Target:    target,
			Direction: direction,
		})
	}
}

func (s *towerTargeting) nearest(from mgl32.Vec3, pathLen int) (ecs.EntityId, mgl32.Vec3, bool) {
	var (
		best     ecs.EntityId
		bestPos  mgl32.Vec3
		bestDist float32
		found    bool
	)
	for item := range s.Targets.Values() {
		if item.Health.Value <= 0 || item.Target.PathIndex >= pathLen {
			continue
		}
		pos := item.Transform.Translation
		d := pos.Sub(from)
		dist := d.Dot(d)
		if !found || dist < bestDist {
			best, bestPos, bestDist, found = item.EntityId, pos, dist, true
		}
	}
	return best, bestPos, found
}

// bulletMover flies bullets in a straight line and removes them when their
// lifetime runs out. It does no hit detection.
type bulletMover struct {
	Bullets ecs.Query[struct {
		ecs.EntityId
		*Transform
		*Bullet
		*Lifetime
	}]
	Expired ecs.Events[BulletExpired]
}

func (s *bulletMover) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for item := range s.Bullets.Values() {
		item.Transform.Translation = item.Transform.Translation.Add(
			item.Bullet.Direction.Mul(item.Bullet.Speed * dt))

		item.Lifetime.Timer.Tick(frame.Delta)
		if item.Lifetime.Timer.JustFinished() {
			frame.Commands.Delete(item.EntityId)
			s.Expired.Send(BulletExpired{Bullet: item.EntityId})
		}
	}
}

// ApplyHit is how a collision collaborator reports that bullet struck
// target. The target loses Config.BulletDamage health and the bullet is
// queued for removal; healthTracker reaps the target on the next tick if it
// died. Returns false if either entity is gone, the bullet has expired, or
// the target is already dead.
func ApplyHit(frame *ecs.UpdateFrame, bullet, target ecs.EntityId) bool {
	storage := frame.Storage
	lifetime := ecs.ReadComponent[Lifetime](storage, bullet)
	health := ecs.ReadComponent[Health](storage, target)
	if lifetime == nil || lifetime.Timer.Finished() || health == nil || health.Value <= 0 {
		return false
	}

	damage := 1
	var cfg *Config
	if storage.ReadSingleton(&cfg) {
		damage = cfg.BulletDamage
	}

	health.Value -= damage
	frame.Commands.Delete(bullet)
	ecs.NewEvents[BulletHit](storage).Send(BulletHit{Bullet: bullet, Target: target})
	return true
}
