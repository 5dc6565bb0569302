package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/veggietd/game"
)

var (
	styleHUD        = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAffordable = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDimmed     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePath       = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleBase       = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleSelected   = styleBase.Reverse(true)
	styleTarget     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleBullet     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleOver       = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

var towerGlyph = map[game.TowerKind]rune{
	game.Tomato:  'T',
	game.Potato:  'P',
	game.Cabbage: 'C',
}

var towerStyle = map[game.TowerKind]tcell.Style{
	game.Tomato:  tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	game.Potato:  tcell.StyleDefault.Foreground(tcell.ColorTan).Bold(true),
	game.Cabbage: tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
}

// Renderer draws a top-down view of the X/Z plane. Row 0 is the HUD, the
// last row is the key help, everything between is the map.
type Renderer struct {
	// Margin is the world-space padding around the fitted bounds.
	Margin float32
}

func NewRenderer() *Renderer {
	return &Renderer{Margin: 1}
}

type projection struct {
	minX, minZ     float32
	scaleX, scaleZ float32
	top, rows      int
	cols           int
}

func (p projection) cell(pos mgl32.Vec3) (int, int) {
	x := int(math.Round(float64((pos.X() - p.minX) * p.scaleX)))
	y := int(math.Round(float64((pos.Z() - p.minZ) * p.scaleZ)))
	return x, p.top + y
}

func (r *Renderer) fit(g *game.Game, width, height int) projection {
	points := make([]mgl32.Vec3, 0, 64)
	for _, wp := range g.Path().Points() {
		points = append(points, mgl32.Vec3{wp.X(), 0, wp.Y()})
	}
	for _, b := range g.Bases() {
		points = append(points, b.Position)
	}
	for _, t := range g.Towers() {
		points = append(points, t.Position)
	}
	for _, t := range g.Targets() {
		points = append(points, t.Position)
	}

	minX, minZ := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxZ := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, p := range points {
		minX, maxX = min(minX, p.X()), max(maxX, p.X())
		minZ, maxZ = min(minZ, p.Z()), max(maxZ, p.Z())
	}
	if len(points) == 0 {
		minX, maxX, minZ, maxZ = 0, 1, 0, 1
	}
	minX -= r.Margin
	minZ -= r.Margin
	maxX += r.Margin
	maxZ += r.Margin

	rows := max(height-2, 1)
	return projection{
		minX:   minX,
		minZ:   minZ,
		scaleX: float32(max(width-1, 1)) / max(maxX-minX, 1e-3),
		scaleZ: float32(rows-1) / max(maxZ-minZ, 1e-3),
		top:    1,
		rows:   rows,
		cols:   width,
	}
}

// Draw renders g onto c. It does not call Show.
func (r *Renderer) Draw(c Canvas, g *game.Game) {
	width, height := c.Size()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
	if width <= 0 || height <= 0 {
		return
	}

	r.drawHUD(c, g)
	if height < 3 {
		return
	}

	proj := r.fit(g, width, height)
	put := func(pos mgl32.Vec3, ch rune, style tcell.Style) {
		x, y := proj.cell(pos)
		if y >= proj.top && y < proj.top+proj.rows {
			c.SetContent(x, y, ch, nil, style)
		}
	}

	path := g.Path().Points()
	for i := 1; i < len(path); i++ {
		a := mgl32.Vec3{path[i-1].X(), 0, path[i-1].Y()}
		b := mgl32.Vec3{path[i].X(), 0, path[i].Y()}
		steps := int(b.Sub(a).Len()*max(proj.scaleX, proj.scaleZ)) + 1
		for s := 0; s <= steps; s++ {
			put(a.Add(b.Sub(a).Mul(float32(s)/float32(steps))), '.', stylePath)
		}
	}
	for _, b := range g.Bases() {
		style := styleBase
		if b.Selected {
			style = styleSelected
		}
		put(b.Position, 'o', style)
	}
	for _, t := range g.Towers() {
		put(t.Position, towerGlyph[t.Kind], towerStyle[t.Kind])
	}
	for _, t := range g.Targets() {
		put(t.Position, '@', styleTarget)
	}
	for _, b := range g.Bullets() {
		put(b.Position, '*', styleBullet)
	}

	drawText(c, 0, height-1, helpLine(g.State()), styleDimmed)
}

func (r *Renderer) drawHUD(c Canvas, g *game.Game) {
	player := g.Player()
	state := g.State()

	style := styleHUD
	if state == game.GameOver {
		style = styleOver
	}
	x := drawText(c, 0, 0, fmt.Sprintf("%-8s $%-5d hp %-3d ", state, player.Money, player.Health), style)

	for i, opt := range g.ShopOptions() {
		s := styleDimmed
		if opt.Affordable {
			s = styleAffordable
		}
		x = drawText(c, x, 0, fmt.Sprintf(" [%d]%s %d", i+1, opt.Kind, opt.Cost), s)
	}
}

func helpLine(state game.GameState) string {
	switch state {
	case game.MainMenu:
		return "s start  q quit"
	case game.InGame:
		return "tab/arrows select base  1-3 buy  c clear  q quit"
	}
	return "game over  q quit"
}
