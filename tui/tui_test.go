package tui_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/veggietd/game"
	"github.com/plus3/veggietd/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Wave.Count = 3
	cfg.Bases.Columns = 3
	cfg.Bases.Rows = 1
	g, err := game.New(cfg, game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return g
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestRendererMainMenu(t *testing.T) {
	g := newGame(t)
	buf := tui.NewBuffer(60, 12)

	tui.NewRenderer().Draw(buf, g)

	assert.True(t, strings.HasPrefix(buf.Row(0), "MainMenu"))
	assert.Contains(t, buf.Row(0), "[1]Tomato 50")
	assert.Equal(t, "s start  q quit", buf.Row(11))
	assert.Zero(t, countMap(buf, '@'))
	assert.Positive(t, countMap(buf, '.'))
}

func TestRendererInGame(t *testing.T) {
	g := newGame(t)
	require.True(t, g.Start())
	buf := tui.NewBuffer(80, 20)

	tui.NewRenderer().Draw(buf, g)
	assert.Equal(t, 3, countMap(buf, '@'))
	assert.Equal(t, 3, countMap(buf, 'o'))
	assert.Contains(t, buf.Row(0), "$100")
	assert.Contains(t, buf.Row(0), "hp 10")
}

// countMap counts r between the HUD and the help line.
func countMap(buf *tui.Buffer, r rune) int {
	w, h := buf.Size()
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 0; x < w; x++ {
			if got, _ := buf.Get(x, y); got == r {
				n++
			}
		}
	}
	return n
}

func TestRendererGreysUnaffordableOptions(t *testing.T) {
	g := newGame(t)
	require.True(t, g.Start())
	buf := tui.NewBuffer(80, 10)
	tui.NewRenderer().Draw(buf, g)

	row := buf.Row(0)
	tomato := strings.Index(row, "Tomato")
	cabbage := strings.Index(row, "Cabbage")
	require.Positive(t, tomato)
	require.Positive(t, cabbage)

	_, affordable := buf.Get(tomato, 0)
	_, dimmed := buf.Get(cabbage, 0)
	fgA, _, _ := affordable.Decompose()
	fgD, _, _ := dimmed.Decompose()
	assert.Equal(t, tcell.ColorGreen, fgA)
	assert.Equal(t, tcell.ColorGray, fgD)
}

func TestControllerBuysTowers(t *testing.T) {
	g := newGame(t)
	c := tui.NewController(g)

	assert.False(t, c.HandleKey(key('s')))
	require.Equal(t, game.InGame, g.State())

	c.HandleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	first, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, g.Bases()[0].Id, first)

	c.HandleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	last, _ := g.Selected()
	assert.Equal(t, g.Bases()[2].Id, last)

	c.HandleKey(key('2'))
	assert.Equal(t, uint32(20), g.Player().Money)
	require.Len(t, g.Towers(), 1)
	assert.Equal(t, game.Potato, g.Towers()[0].Kind)

	c.HandleKey(key('1'))
	assert.Len(t, g.Towers(), 1, "nothing selected after the purchase")

	c.HandleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	c.HandleKey(key('c'))
	_, ok = g.Selected()
	assert.False(t, ok)
}

func TestControllerQuit(t *testing.T) {
	c := tui.NewController(newGame(t))
	assert.True(t, c.HandleKey(key('q')))
	assert.True(t, c.HandleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, c.HandleKey(key('x')))
}

func TestRendererDrawsBullets(t *testing.T) {
	g := newGame(t)
	require.True(t, g.Start())
	c := tui.NewController(g)
	c.HandleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	c.HandleKey(key('1'))

	buf := tui.NewBuffer(80, 20)
	r := tui.NewRenderer()
	r.Draw(buf, g)
	assert.Equal(t, 1, countMap(buf, 'T'))
	assert.Zero(t, countMap(buf, '*'))

	for i := 0; i < 5; i++ {
		g.Tick(100 * time.Millisecond)
	}
	require.Len(t, g.Bullets(), 1)

	r.Draw(buf, g)
	assert.Equal(t, 1, countMap(buf, '*'))
}
