package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/ecs"
)

// WaypointPath is the ordered list of points every target follows. It is
// built once per session and never mutated.
type WaypointPath struct {
	points []mgl32.Vec2
}

func NewWaypointPath(points []mgl32.Vec2) WaypointPath {
	return WaypointPath{points: append([]mgl32.Vec2(nil), points...)}
}

// At returns waypoint i. An out-of-range index means the target has
// escaped; it is reported with ok == false rather than as an error.
func (p WaypointPath) At(i int) (mgl32.Vec2, bool) {
	if i < 0 || i >= len(p.points) {
		return mgl32.Vec2{}, false
	}
	return p.points[i], true
}

func (p WaypointPath) Len() int { return len(p.points) }

// Points returns a copy of the waypoints.
func (p WaypointPath) Points() []mgl32.Vec2 {
	return append([]mgl32.Vec2(nil), p.points...)
}

// Player holds the economy. Money is never negative because purchases are
// rejected rather than clamped; Health floors at zero.
type Player struct {
	Money  uint32
	Health int
}

// CanAfford is the affordability predicate shared by purchases and the shop.
func (p Player) CanAfford(cost uint32) bool {
	return p.Money >= cost
}

// Selection is the tower base the player is buying for, if any.
type Selection struct {
	Base *ecs.EntityRef
}

// Session counts what happened since the game entered InGame.
type Session struct {
	Elapsed      time.Duration
	Ticks        uint64
	Kills        int
	Escapes      int
	Shots        int
	Expired      int
	Hits         int
	TowersBought int
}
