package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/veggietd/game"
)

// ShopPanel shows one button per tower kind. Buttons the player cannot
// afford are disabled; a click buys for the selected base.
type ShopPanel struct {
	game *game.Game
}

func NewShopPanel(g *game.Game) *ShopPanel {
	return &ShopPanel{game: g}
}

func (p *ShopPanel) Render() {
	if !imgui.BeginV("Shop", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.End()
		return
	}

	_, selected := p.game.Selected()
	if !selected {
		imgui.Text("Select a base")
	}

	for _, opt := range p.game.ShopOptions() {
		imgui.BeginDisabledV(!opt.Affordable || !selected)
		if imgui.Button(optionLabel(opt)) {
			p.game.BuySelected(opt.Kind)
		}
		imgui.EndDisabled()
	}

	imgui.End()
}

func optionLabel(opt game.ShopOption) string {
	return fmt.Sprintf("%s ($%d)", opt.Kind, opt.Cost)
}

// SessionPanel shows the player state and the session counters.
type SessionPanel struct {
	game *game.Game
}

func NewSessionPanel(g *game.Game) *SessionPanel {
	return &SessionPanel{game: g}
}

func (p *SessionPanel) Render() {
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.End()
		return
	}

	for _, line := range sessionLines(p.game.State(), p.game.Player(), p.game.Session()) {
		imgui.Text(line)
	}

	if p.game.State() == game.MainMenu {
		imgui.Separator()
		if imgui.Button("Start") {
			p.game.Start()
		}
	}

	imgui.End()
}

func sessionLines(state game.GameState, player game.Player, s game.Session) []string {
	return []string{
		fmt.Sprintf("State: %s", state),
		fmt.Sprintf("Money: $%d", player.Money),
		fmt.Sprintf("Health: %d", player.Health),
		fmt.Sprintf("Elapsed: %.1fs (%d ticks)", s.Elapsed.Seconds(), s.Ticks),
		fmt.Sprintf("Kills: %d  Escapes: %d", s.Kills, s.Escapes),
		fmt.Sprintf("Shots: %d  Hits: %d  Expired: %d", s.Shots, s.Hits, s.Expired),
		fmt.Sprintf("Towers: %d", s.TowersBought),
	}
}
