package game_test

import (
	"testing"

	"github.com/plus3/veggietd/ecs"
	"github.com/plus3/veggietd/game"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to game.GameState
		ok       bool
	}{
		{game.MainMenu, game.InGame, true},
		{game.MainMenu, game.GameOver, false},
		{game.InGame, game.GameOver, true},
		{game.InGame, game.MainMenu, false},
		{game.GameOver, game.InGame, false},
		{game.GameOver, game.MainMenu, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.ok, game.CanTransition(tt.from, tt.to))
		})
	}
}

func TestStateMachineRequest(t *testing.T) {
	var sm game.StateMachine
	assert.Equal(t, game.MainMenu, sm.Current())

	assert.False(t, sm.Request(game.GameOver))
	_, pending := sm.Pending()
	assert.False(t, pending)

	assert.True(t, sm.Request(game.InGame))
	next, pending := sm.Pending()
	assert.True(t, pending)
	assert.Equal(t, game.InGame, next)
	assert.Equal(t, game.MainMenu, sm.Current())
}

func TestInState(t *testing.T) {
	storage := ecs.NewStorage(game.NewRegistry())
	cond := game.InState(game.MainMenu)
	assert.False(t, cond(storage))

	ecs.NewSingleton[game.StateMachine](storage)
	assert.True(t, cond(storage))
	assert.False(t, game.InState(game.InGame)(storage))
}

func TestStartOnlyFromMainMenu(t *testing.T) {
	g, err := game.New(emptyConfig(), game.WithLogger(quietLogger()))
	assert.NoError(t, err)
	assert.Equal(t, game.MainMenu, g.State())

	// nothing runs in the menu
	g.Tick(tick)
	assert.Empty(t, g.Targets())
	assert.Zero(t, g.Session().Ticks)

	assert.True(t, g.Start())
	assert.False(t, g.Start())
	assert.Equal(t, game.InGame, g.State())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Path = nil
	_, err := game.New(cfg)
	assert.ErrorIs(t, err, game.ErrEmptyPath)
}
