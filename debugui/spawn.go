package debugui

import (
	"github.com/plus3/veggietd/ecs"
	"github.com/plus3/veggietd/game"
)

// RegisterComponents registers the component types used by the overlay.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// Overlay is the ImGui storage and scheduler for one game.
type Overlay struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	input *ecs.Singleton[ImguiInputState]
}

// NewOverlay spawns the shop, session and stats panels for g.
func NewOverlay(g *game.Game) *Overlay {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)

	storage := ecs.NewStorage(registry)
	o := &Overlay{
		Storage:   storage,
		Scheduler: ecs.NewScheduler(storage),
		input:     ecs.NewSingleton[ImguiInputState](storage),
	}

	shop := NewShopPanel(g)
	session := NewSessionPanel(g)
	stats := NewStatsPanel(g, 120)
	storage.Spawn(ImguiItem{Render: shop.Render})
	storage.Spawn(ImguiItem{Render: session.Render})
	storage.Spawn(ImguiItem{Render: stats.Render})

	o.Scheduler.Register(&ImguiSystem{})
	return o
}

// WantsMouse reports whether the last frame's panels captured the mouse.
func (o *Overlay) WantsMouse() bool {
	return o.input.Get().WantCaptureMouse
}
