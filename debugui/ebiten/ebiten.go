// Package ebiten hosts the debugui overlay on the ebiten ImGui backend.
package ebiten

import (
	"time"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/veggietd/debugui"
	"github.com/plus3/veggietd/ecs"
)

// ImguiBackend wraps the ebiten ImGui backend so it can be stored as a
// singleton in the overlay storage.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Host drives an overlay from an ebiten game loop: Update renders the
// panels inside one ImGui frame, Draw composites them over the screen.
type Host struct {
	overlay *debugui.Overlay
	backend *ecs.Singleton[ImguiBackend]
}

// NewHost creates the backend and stores it in the overlay storage. ebiten
// must not be running yet.
func NewHost(overlay *debugui.Overlay, title string, width, height int) *Host {
	ecs.RegisterComponent[ImguiBackend](overlay.Storage.Registry())

	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	return &Host{
		overlay: overlay,
		backend: ecs.NewSingleton[ImguiBackend](overlay.Storage, ImguiBackend{EbitenBackend: backend}),
	}
}

func (h *Host) Update(dt time.Duration) {
	b := h.backend.Get()
	b.BeginFrame()
	h.overlay.Scheduler.Once(dt)
	b.EndFrame()
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.backend.Get().Draw(screen)
}

func (h *Host) Layout(outsideWidth, outsideHeight int) {
	h.backend.Get().Layout(outsideWidth, outsideHeight)
}
