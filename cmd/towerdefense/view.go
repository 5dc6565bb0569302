package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/game"
)

// topDown maps the world XZ plane onto the screen, +X right and +Z down.
type topDown struct {
	scale  float32
	offset mgl32.Vec2
	min    mgl32.Vec2
}

// fitTopDown frames every point within a width x height screen, keeping a
// margin in pixels on every side.
func fitTopDown(points []mgl32.Vec3, width, height int, margin float32) topDown {
	lo := mgl32.Vec2{float32(math.Inf(1)), float32(math.Inf(1))}
	hi := mgl32.Vec2{float32(math.Inf(-1)), float32(math.Inf(-1))}
	for _, p := range points {
		lo = mgl32.Vec2{min(lo.X(), p.X()), min(lo.Y(), p.Z())}
		hi = mgl32.Vec2{max(hi.X(), p.X()), max(hi.Y(), p.Z())}
	}
	if len(points) == 0 {
		lo, hi = mgl32.Vec2{}, mgl32.Vec2{1, 1}
	}

	span := hi.Sub(lo)
	span = mgl32.Vec2{max(span.X(), 1), max(span.Y(), 1)}
	usable := mgl32.Vec2{float32(width) - 2*margin, float32(height) - 2*margin}
	scale := min(usable.X()/span.X(), usable.Y()/span.Y())

	// Center the scene in whatever room the tighter axis leaves over.
	offset := mgl32.Vec2{
		margin + (usable.X()-span.X()*scale)/2,
		margin + (usable.Y()-span.Y()*scale)/2,
	}
	return topDown{scale: scale, offset: offset, min: lo}
}

func (v topDown) screen(p mgl32.Vec3) (float32, float32) {
	return v.offset.X() + (p.X()-v.min.X())*v.scale,
		v.offset.Y() + (p.Z()-v.min.Y())*v.scale
}

// sceneBounds collects the points the camera has to keep in frame.
func sceneBounds(g *game.Game) []mgl32.Vec3 {
	cfg := g.Config()
	points := make([]mgl32.Vec3, 0, len(cfg.Path)+4)
	for _, p := range cfg.Path {
		points = append(points, mgl32.Vec3{p.X(), 0, p.Y()})
	}

	wave := cfg.Wave
	if wave.Count > 0 {
		points = append(points, wave.Origin, wave.Origin.Add(wave.Spacing.Mul(float32(wave.Count-1))))
	}

	grid := cfg.Bases
	if grid.Columns > 0 && grid.Rows > 0 {
		last := grid.Origin.
			Add(grid.ColumnStep.Mul(float32(grid.Columns - 1))).
			Add(grid.RowStep.Mul(float32(grid.Rows - 1)))
		points = append(points, grid.Origin, last)
	}
	return points
}

// pickBase returns the base drawn closest to (x, y), if it lies within
// radius pixels.
func pickBase(v topDown, bases []game.BaseInfo, x, y, radius float32) (game.BaseInfo, bool) {
	var (
		best     game.BaseInfo
		bestDist = radius * radius
		found    bool
	)
	for _, b := range bases {
		bx, by := v.screen(b.Position)
		dx, dy := bx-x, by-y
		if d := dx*dx + dy*dy; d <= bestDist {
			best, bestDist, found = b, d, true
		}
	}
	return best, found
}
