package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/veggietd/game"
)

// Controller turns key presses into game actions.
type Controller struct {
	game *game.Game
}

func NewController(g *game.Game) *Controller {
	return &Controller{game: g}
}

// HandleKey applies ev and reports whether the player asked to quit.
func (c *Controller) HandleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab, tcell.KeyRight, tcell.KeyDown:
		c.cycle(1)
	case tcell.KeyBacktab, tcell.KeyLeft, tcell.KeyUp:
		c.cycle(-1)
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'q':
			return true
		case 's':
			c.game.Start()
		case 'c':
			c.game.ClearSelection()
		case '1', '2', '3':
			c.game.BuySelected(game.TowerKinds[r-'1'])
		}
	}
	return false
}

// cycle moves the selection dir steps through the bases, wrapping around.
func (c *Controller) cycle(dir int) {
	bases := c.game.Bases()
	if len(bases) == 0 {
		return
	}
	current := -1
	for i, b := range bases {
		if b.Selected {
			current = i
			break
		}
	}
	next := 0
	switch {
	case current >= 0:
		next = ((current+dir)%len(bases) + len(bases)) % len(bases)
	case dir < 0:
		next = len(bases) - 1
	}
	c.game.Select(bases[next].Id)
}
