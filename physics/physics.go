// Package physics detects bullet/target overlaps and reports them to the
// simulation through game.ApplyHit.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
	"github.com/plus3/veggietd/game"
)

// AABB is an axis-aligned box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Box returns the box of half extents he centred on center.
func Box(center, he mgl32.Vec3) AABB {
	return AABB{Min: center.Sub(he), Max: center.Add(he)}
}

// Overlaps reports whether a and b intersect. Touching faces count.
func (a AABB) Overlaps(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Max[i] < b.Min[i] || b.Max[i] < a.Min[i] {
			return false
		}
	}
	return true
}

// System tests every live bullet against every live target and applies at
// most one hit per bullet per tick.
type System struct {
	Bullets ecs.Query[struct {
		ecs.EntityId
		*game.Transform
		*game.Collider
		*game.Lifetime
		*game.Bullet
	}]
	Targets ecs.Query[struct {
		ecs.EntityId
		*game.Transform
		*game.Collider
		*game.Target
		*game.Health
	}]
	Path ecs.Singleton[game.WaypointPath]

	hits int
}

func NewSystem() *System {
	return &System{}
}

func (s *System) Execute(frame *ecs.UpdateFrame) {
	pathLen := 0
	if path := s.Path.Get(); path != nil {
		pathLen = path.Len()
	}

	for bullet := range s.Bullets.Values() {
		if bullet.Lifetime.Timer.Finished() {
			continue
		}
		box := Box(bullet.Transform.Translation, bullet.Collider.HalfExtents)

		for target := range s.Targets.Values() {
			if target.Health.Value <= 0 || target.Target.PathIndex >= pathLen {
				continue
			}
			if !box.Overlaps(Box(target.Transform.Translation, target.Collider.HalfExtents)) {
				continue
			}
			if game.ApplyHit(frame, bullet.EntityId, target.EntityId) {
				s.hits++
				break
			}
		}
	}
}

// Hits is the number of hits applied since the system was created.
func (s *System) Hits() int {
	return s.hits
}
