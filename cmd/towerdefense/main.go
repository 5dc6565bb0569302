package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/veggietd/audio"
	"github.com/plus3/veggietd/debugui"
	debugui_ebiten "github.com/plus3/veggietd/debugui/ebiten"
	"github.com/plus3/veggietd/game"
	"github.com/plus3/veggietd/physics"
	"golang.org/x/image/font/basicfont"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	margin       = 40
)

var (
	backgroundColor = color.RGBA{24, 28, 24, 255}
	pathColor       = color.RGBA{120, 100, 70, 255}
	baseColor       = color.RGBA{90, 90, 90, 255}
	selectedColor   = color.RGBA{240, 220, 80, 255}
	targetColor     = color.RGBA{200, 60, 60, 255}
	bulletColor     = color.RGBA{250, 250, 250, 255}

	kindColors = map[game.TowerKind]color.RGBA{
		game.Tomato:  {220, 50, 40, 255},
		game.Potato:  {190, 150, 90, 255},
		game.Cabbage: {90, 180, 80, 255},
	}

	hudFace = text.NewGoXFace(basicfont.Face7x13)
)

type window struct {
	game *game.Game
	host *debugui_ebiten.Host
	ui   *debugui.Overlay
	view topDown
}

func (w *window) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())

	if !w.ui.WantsMouse() && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if base, ok := pickBase(w.view, w.game.Bases(), float32(x), float32(y), 0.6*w.view.scale); ok {
			w.game.Select(base.Id)
		} else {
			w.game.ClearSelection()
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		w.game.Start()
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		w.game.BuySelected(game.Tomato)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		w.game.BuySelected(game.Potato)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		w.game.BuySelected(game.Cabbage)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}

	w.game.Tick(dt)
	w.host.Update(dt)
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	path := w.game.Path().Points()
	for i := 1; i < len(path); i++ {
		x0, y0 := w.view.screen(mgl32.Vec3{path[i-1].X(), 0, path[i-1].Y()})
		x1, y1 := w.view.screen(mgl32.Vec3{path[i].X(), 0, path[i].Y()})
		vector.StrokeLine(screen, x0, y0, x1, y1, 0.4*w.view.scale, pathColor, true)
	}

	size := 0.5 * w.view.scale
	for _, b := range w.game.Bases() {
		x, y := w.view.screen(b.Position)
		vector.DrawFilledRect(screen, x-size/2, y-size/2, size, size, baseColor, false)
		if b.Selected {
			vector.StrokeRect(screen, x-size/2, y-size/2, size, size, 2, selectedColor, false)
		}
	}

	for _, t := range w.game.Towers() {
		x, y := w.view.screen(t.Position)
		vector.DrawFilledCircle(screen, x, y, size/2, kindColors[t.Kind], true)
	}

	for _, t := range w.game.Targets() {
		x, y := w.view.screen(t.Position)
		fx, fy := w.view.screen(t.Position.Add(t.Forward.Mul(0.4)))
		vector.DrawFilledCircle(screen, x, y, size/3, targetColor, true)
		vector.StrokeLine(screen, x, y, fx, fy, 2, targetColor, true)
	}

	for _, b := range w.game.Bullets() {
		x, y := w.view.screen(b.Position)
		vector.DrawFilledCircle(screen, x, y, 3, bulletColor, true)
	}

	player := w.game.Player()
	opts := &text.DrawOptions{}
	opts.GeoM.Translate(10, 10)
	opts.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, fmt.Sprintf("%s   $%d   hp %d", w.game.State(), player.Money, player.Health), hudFace, opts)

	w.host.Draw(screen)
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.host.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func main() {
	configPath := flag.String("config", "", "YAML config file; the reference scene if empty.")
	mute := flag.Bool("mute", false, "Disable sound.")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	sink := audio.NewSink(beep.SampleRate(44100))
	if !*mute {
		if err := sink.Open(); err != nil {
			logger.Warn("audio unavailable", "err", err)
		}
	}
	defer sink.Close()

	g, err := game.New(cfg,
		game.WithLogger(logger),
		game.WithSink(sink),
		game.WithSystems(physics.NewSystem()),
	)
	if err != nil {
		log.Fatal(err)
	}

	overlay := debugui.NewOverlay(g)
	w := &window{
		game: g,
		ui:   overlay,
		host: debugui_ebiten.NewHost(overlay, "veggietd", screenWidth, screenHeight),
		view: fitTopDown(sceneBounds(g), screenWidth, screenHeight, margin),
	}

	if err := ebiten.RunGame(w); err != nil {
		log.Fatal(err)
	}
}
