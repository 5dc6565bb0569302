package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
)

// targetMover advances each living target toward its current waypoint.
//
// Arrival is two-phase: on the tick a target is within one step of its
// waypoint it does not move and its PathIndex is bumped; travel toward the
// next waypoint resumes on the following tick. A PathIndex past the end of
// the path is left for escapeSystem.
type targetMover struct {
	Targets ecs.Query[struct {
		*Transform
		*Target
		*Health
	}]
	Path ecs.Singleton[WaypointPath]
}

func (s *targetMover) Execute(frame *ecs.UpdateFrame) {
	path := s.Path.Get()
	if path == nil {
		return
	}
	dt := float32(frame.DeltaTime)

	for item := range s.Targets.Values() {
		if item.Health.Value <= 0 {
			continue
		}
		waypoint, ok := path.At(item.Target.PathIndex)
		if !ok {
			continue
		}

		pos := item.Transform.Translation
		step := item.Target.Speed * dt
		delta := waypoint.Sub(mgl32.Vec2{pos.X(), pos.Z()})

		if delta.Len() > step {
			move := delta.Normalize().Mul(step)
			item.Transform.Translation = mgl32.Vec3{pos.X() + move.X(), pos.Y(), pos.Z() + move.Y()}
			item.Transform.LookAtPlanar(mgl32.Vec3{waypoint.X(), pos.Y(), waypoint.Y()})
		} else {
			item.Target.PathIndex++
		}
	}
}

// healthTracker reaps everything whose health dropped to zero or below.
type healthTracker struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Health
		Transform *Transform `ecs:"optional"`
	}]
	Died ecs.Events[TargetDied]
}

func (s *healthTracker) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Values() {
		if item.Health.Value > 0 {
			continue
		}
		var pos mgl32.Vec3
		if item.Transform != nil {
			pos = item.Transform.Translation
		}
		s.Died.Send(TargetDied{Entity: item.EntityId, Position: pos})
		frame.Commands.Delete(item.EntityId)
	}
}

// escapeSystem removes targets that ran off the end of the path and charges
// the player one health point each.
type escapeSystem struct {
	Targets ecs.Query[struct {
		ecs.EntityId
		*Target
		*Health
	}]
	Path    ecs.Singleton[WaypointPath]
	Player  ecs.Singleton[Player]
	State   ecs.Singleton[StateMachine]
	Damaged ecs.Events[PlayerDamaged]
}

func (s *escapeSystem) Execute(frame *ecs.UpdateFrame) {
	path, player := s.Path.Get(), s.Player.Get()
	if path == nil || player == nil {
		return
	}

	for item := range s.Targets.Values() {
		// dead this tick; healthTracker owns it
		if item.Health.Value <= 0 || item.Target.PathIndex < path.Len() {
			continue
		}

		frame.Commands.Delete(item.EntityId)
		if player.Health > 0 {
			player.Health--
			if player.Health == 0 {
				s.State.Get().Request(GameOver)
			}
		}
		s.Damaged.Send(PlayerDamaged{Target: item.EntityId, Health: player.Health})
	}
}
