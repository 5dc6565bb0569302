package game

import "github.com/plus3/veggietd/ecs"

// killReward credits Config.KillReward for every death this tick.
type killReward struct {
	Died   ecs.Events[TargetDied]
	Player ecs.Singleton[Player]
	Config ecs.Singleton[Config]
}

func (s *killReward) Execute(frame *ecs.UpdateFrame) {
	cfg, player := s.Config.Get(), s.Player.Get()
	if cfg == nil || player == nil || cfg.KillReward == 0 {
		return
	}
	for range s.Died.Iter() {
		player.Money += cfg.KillReward
	}
}

// shopSync keeps the shop projection in step with the selection and the
// player's money. At most one ShopPanel may exist; a second one means some
// collaborator is spawning panels behind our back, and that is fatal.
type shopSync struct {
	Panels ecs.Query[struct {
		ecs.EntityId
		*ShopPanel
	}]
	Buttons ecs.Query[struct {
		ecs.EntityId
		*ShopButton
	}]
	Selection ecs.Singleton[Selection]
	Player    ecs.Singleton[Player]
	Config    ecs.Singleton[Config]
}

func (s *shopSync) Execute(frame *ecs.UpdateFrame) {
	if s.Panels.Len() > 1 {
		panic("too many shop panels")
	}

	selection := s.Selection.Get()
	if selection != nil && selection.Base != nil && !selection.Base.Valid() {
		selection.Base = nil
	}
	selected := selection != nil && selection.Base != nil

	var panel *ShopPanel
	var panelId ecs.EntityId
	for item := range s.Panels.Values() {
		panel, panelId = item.ShopPanel, item.EntityId
	}

	switch {
	case selected && panel == nil:
		s.open(frame, selection.Base)
		return
	case !selected && panel != nil:
		frame.Commands.Delete(panelId)
		for item := range s.Buttons.Values() {
			frame.Commands.Delete(item.EntityId)
		}
		return
	case selected:
		panel.Base = selection.Base
	}

	player := s.Player.Get()
	for item := range s.Buttons.Values() {
		item.ShopButton.Affordable = player != nil && player.CanAfford(item.ShopButton.Cost)
	}
}

func (s *shopSync) open(frame *ecs.UpdateFrame, base *ecs.EntityRef) {
	cfg, player := s.Config.Get(), s.Player.Get()
	frame.Commands.Spawn(ShopPanel{Base: base}, Name{Value: "Shop"})
	for _, kind := range TowerKinds {
		stats, _ := cfg.Tower(kind)
		frame.Commands.Spawn(
			ShopButton{Kind: kind, Cost: stats.Cost, Affordable: player.CanAfford(stats.Cost)},
			Name{Value: kind.String()},
		)
	}
}

// notifier forwards deaths and escape damage to the Sink.
type notifier struct {
	Died    ecs.Events[TargetDied]
	Damaged ecs.Events[PlayerDamaged]
	sink    Sink
}

func (s *notifier) Execute(frame *ecs.UpdateFrame) {
	for range s.Died.Iter() {
		s.sink.TargetDied()
	}
	for range s.Damaged.Iter() {
		s.sink.PlayerDamaged()
	}
}

// sessionCounter folds the tick's events into the Session singleton.
type sessionCounter struct {
	Session ecs.Singleton[Session]
	Died    ecs.Events[TargetDied]
	Damaged ecs.Events[PlayerDamaged]
	Fired   ecs.Events[TowerFired]
	Expired ecs.Events[BulletExpired]
	Hits    ecs.Events[BulletHit]
}

func (s *sessionCounter) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session == nil {
		return
	}
	session.Ticks++
	session.Elapsed += frame.Delta
	session.Kills += s.Died.Len()
	session.Escapes += s.Damaged.Len()
	session.Shots += s.Fired.Len()
	session.Expired += s.Expired.Len()
	session.Hits += s.Hits.Len()
}
