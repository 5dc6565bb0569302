package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
)

// Transform places an entity in the world. Movement is planar on X/Z and Y
// is height.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

func NewTransform(translation mgl32.Vec3) Transform {
	return Transform{Translation: translation, Rotation: mgl32.QuatIdent()}
}

// LookAtPlanar turns the transform about +Y so its forward axis (-Z) faces
// point. Height differences are ignored.
func (t *Transform) LookAtPlanar(point mgl32.Vec3) {
	dx := point.X() - t.Translation.X()
	dz := point.Z() - t.Translation.Z()
	if dx == 0 && dz == 0 {
		return
	}
	yaw := float32(math.Atan2(float64(-dx), float64(-dz)))
	t.Rotation = mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
}

// Forward is the direction the transform faces.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Target follows the waypoint path. PathIndex only ever increases.
type Target struct {
	Speed     float32
	PathIndex int
}

type Health struct {
	Value int
}

type Tower struct {
	Kind         TowerKind
	Cooldown     Timer
	BulletOffset mgl32.Vec3
}

// Bullet flies along a fixed unit Direction. Launcher is kept for
// attribution and positioning only.
type Bullet struct {
	Direction mgl32.Vec3
	Speed     float32
	Kind      TowerKind
	Launcher  *ecs.EntityRef
}

type Lifetime struct {
	Timer Timer
}

// TowerBase marks an empty slot where a tower can be bought.
type TowerBase struct{}

type Name struct {
	Value string
}

// Collider is an axis-aligned box centred on the entity's translation.
type Collider struct {
	HalfExtents mgl32.Vec3
}

// ShopPanel is the single shop root, alive while a base is selected.
type ShopPanel struct {
	Base *ecs.EntityRef
}

type ShopButton struct {
	Kind       TowerKind
	Cost       uint32
	Affordable bool
}

// NewRegistry registers every component the simulation spawns.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Target](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Tower](registry)
	ecs.RegisterComponent[Bullet](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[TowerBase](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Collider](registry)
	ecs.RegisterComponent[ShopPanel](registry)
	ecs.RegisterComponent[ShopButton](registry)
	return registry
}
