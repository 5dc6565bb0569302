package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/veggietd/ecs"
	"github.com/plus3/veggietd/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchase(t *testing.T) {
	cfg := emptyConfig()
	cfg.StartingMoney = 50
	cfg.Bases = game.BaseGrid{Columns: 2, Rows: 1, ColumnStep: [3]float32{2, 0, 0}}
	g := startGame(t, cfg)

	bases := g.Bases()
	require.Len(t, bases, 2)

	tower, ok := g.Purchase(bases[1].Id, game.Tomato)
	require.True(t, ok)
	assert.Equal(t, uint32(0), g.Player().Money)
	assert.False(t, g.Storage().Alive(bases[1].Id))

	towers := g.Towers()
	require.Len(t, towers, 1)
	assert.Equal(t, tower, towers[0].Id)
	assert.Equal(t, game.Tomato, towers[0].Kind)
	assert.Equal(t, bases[1].Position, towers[0].Position)

	for _, kind := range game.TowerKinds {
		_, ok := g.Purchase(bases[0].Id, kind)
		assert.False(t, ok, kind.String())
	}
	assert.Equal(t, uint32(0), g.Player().Money)
	assert.Len(t, g.Towers(), 1)
	assert.Len(t, g.Bases(), 1)
	assert.Equal(t, 1, g.Session().TowersBought)
}

func TestPurchaseRejectsNonBases(t *testing.T) {
	g := startGame(t, emptyConfig())
	base := onlyBase(t, g)

	tower, ok := g.Purchase(base.Id, game.Tomato)
	require.True(t, ok)

	_, ok = g.Purchase(tower, game.Tomato)
	assert.False(t, ok)
	_, ok = g.Purchase(base.Id, game.Tomato)
	assert.False(t, ok)
	_, ok = g.Purchase(base.Id, game.TowerKind(9))
	assert.False(t, ok)
	assert.Equal(t, uint32(50), g.Player().Money)
}

func TestPurchaseOutsideGame(t *testing.T) {
	g, err := game.New(emptyConfig(), game.WithLogger(quietLogger()))
	require.NoError(t, err)

	_, ok := g.Purchase(ecs.NewEntityId(1, 0), game.Tomato)
	assert.False(t, ok)
}

func TestShopOptions(t *testing.T) {
	cfg := emptyConfig()
	cfg.StartingMoney = 80
	g := startGame(t, cfg)

	assert.Equal(t, []game.ShopOption{
		{Kind: game.Tomato, Cost: 50, Affordable: true},
		{Kind: game.Potato, Cost: 80, Affordable: true},
		{Kind: game.Cabbage, Cost: 110, Affordable: false},
	}, g.ShopOptions())

	_, ok := g.Purchase(onlyBase(t, g).Id, game.Tomato)
	require.True(t, ok)
	for _, opt := range g.ShopOptions() {
		assert.False(t, opt.Affordable, opt.Kind.String())
	}
}

func shopButtons(g *game.Game) map[game.TowerKind]game.ShopButton {
	view := ecs.NewView[struct{ *game.ShopButton }](g.Storage())
	out := make(map[game.TowerKind]game.ShopButton)
	for item := range view.Values() {
		out[item.ShopButton.Kind] = *item.ShopButton
	}
	return out
}

func shopPanels(g *game.Game) int {
	return ecs.NewView[struct{ *game.ShopPanel }](g.Storage()).Count()
}

func TestShopFollowsSelection(t *testing.T) {
	cfg := emptyConfig()
	cfg.Bases = game.BaseGrid{Columns: 2, Rows: 1, ColumnStep: [3]float32{2, 0, 0}}
	g := startGame(t, cfg)
	bases := g.Bases()

	g.Tick(tick)
	assert.Zero(t, shopPanels(g))

	require.True(t, g.Select(bases[0].Id))
	g.Tick(tick)
	assert.Equal(t, 1, shopPanels(g))
	buttons := shopButtons(g)
	require.Len(t, buttons, 3)
	assert.True(t, buttons[game.Tomato].Affordable)
	assert.True(t, buttons[game.Potato].Affordable)
	assert.False(t, buttons[game.Cabbage].Affordable)

	// switching bases keeps the one panel
	require.True(t, g.Select(bases[1].Id))
	g.Tick(tick)
	assert.Equal(t, 1, shopPanels(g))

	_, ok := g.BuySelected(game.Potato)
	require.True(t, ok)
	_, selected := g.Selected()
	assert.False(t, selected)

	g.Tick(tick)
	assert.Zero(t, shopPanels(g))
	assert.Empty(t, shopButtons(g))
	assert.False(t, g.Select(bases[1].Id), "bought base is gone")
}

func TestShopRecomputesAffordability(t *testing.T) {
	g := startGame(t, emptyConfig())
	require.True(t, g.Select(onlyBase(t, g).Id))
	g.Tick(tick)
	assert.False(t, shopButtons(g)[game.Cabbage].Affordable)

	spawnTarget(g, [3]float32{}, 0, 0)
	g.Tick(tick)
	assert.Equal(t, uint32(110), g.Player().Money)
	assert.True(t, shopButtons(g)[game.Cabbage].Affordable)
}

func TestShopPanicsOnSecondPanel(t *testing.T) {
	g := startGame(t, emptyConfig())
	g.Storage().Spawn(game.ShopPanel{})
	g.Storage().Spawn(game.ShopPanel{})

	assert.PanicsWithValue(t, "too many shop panels", func() { g.Tick(tick) })
}

func TestClearSelection(t *testing.T) {
	g := startGame(t, emptyConfig())
	require.True(t, g.Select(onlyBase(t, g).Id))
	g.Tick(tick)
	require.Equal(t, 1, shopPanels(g))

	g.ClearSelection()
	g.Tick(tick)
	assert.Zero(t, shopPanels(g))

	_, ok := g.BuySelected(game.Tomato)
	assert.False(t, ok)
}

func TestReferenceSceneSetup(t *testing.T) {
	g := startGame(t, game.DefaultConfig())

	targets := g.Targets()
	require.Len(t, targets, 24)
	assert.Equal(t, [3]float32{-46, 0.4, 2.5}, [3]float32(targets[23].Position))
	for _, target := range targets {
		assert.Equal(t, 3, target.Health)
		assert.Zero(t, target.PathIndex)
	}

	bases := g.Bases()
	require.Len(t, bases, 20)
	assert.Equal(t, [3]float32{19, 0.8, 5}, [3]float32(bases[19].Position))

	assert.Equal(t, game.Player{Money: 100, Health: 10}, g.Player())
	assert.Equal(t, 3, g.Path().Len())
}

func TestRun(t *testing.T) {
	g := startGame(t, emptyConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	g.Run(ctx, time.Millisecond)

	assert.Positive(t, g.Session().Ticks)
}
