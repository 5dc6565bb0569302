package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
)

// TargetDied is sent when an entity with non-positive health is reaped.
type TargetDied struct {
	Entity   ecs.EntityId
	Position mgl32.Vec3
}

// PlayerDamaged is sent for every escaping target. Health is the player's
// health after the escape was applied.
type PlayerDamaged struct {
	Target ecs.EntityId
	Health int
}

type TowerFired struct {
	Tower     ecs.EntityId
	Kind      TowerKind
	Target    ecs.EntityId
	Direction mgl32.Vec3
}

type BulletExpired struct {
	Bullet ecs.EntityId
}

// BulletHit is sent by ApplyHit.
type BulletHit struct {
	Bullet ecs.EntityId
	Target ecs.EntityId
}

// Sink receives fire-and-forget notifications, e.g. to play a sound.
type Sink interface {
	TargetDied()
	PlayerDamaged()
}

type nopSink struct{}

func (nopSink) TargetDied()    {}
func (nopSink) PlayerDamaged() {}
