package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/veggietd/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Values() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type spawnerSystem struct{}

func (s *spawnerSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Position{}, Velocity{DX: 1})
}

type counterSystem struct {
	Positions ecs.Query[struct{ *Position }]
	Seen      []int
}

func (s *counterSystem) Execute(frame *ecs.UpdateFrame) {
	s.Seen = append(s.Seen, s.Positions.Len())
}

type reaperSystem struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Health
	}]
	Deaths ecs.Events[ecs.EntityId]
}

func (s *reaperSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Values() {
		if item.Health.Current <= 0 {
			frame.Commands.Delete(item.EntityId)
			frame.Commands.Delete(item.EntityId)
			s.Deaths.Send(item.EntityId)
		}
	}
}

type obituarySystem struct {
	Deaths ecs.Events[ecs.EntityId]
	Total  ecs.Singleton[Score]
}

func (s *obituarySystem) Execute(frame *ecs.UpdateFrame) {
	for range s.Deaths.Iter() {
		*s.Total.Get() += 1
	}
}

func TestSchedulerRunsSystemsInOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var order []string
	scheduler.Register(ecs.NamedSystem("first", func(*ecs.UpdateFrame) { order = append(order, "first") }))
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { order = append(order, "second") }))

	scheduler.Once(time.Second)
	scheduler.Once(time.Second)
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)

	stats := scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(2), stats.Ticks)
	assert.Equal(t, "first", stats.Systems[0].Name)
	assert.Equal(t, "SystemFunc", stats.Systems[1].Name)
}

func TestSchedulerQueries(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	movement := &MovementSystem{}
	scheduler.Register(movement)

	id := storage.Spawn(Position{}, Velocity{DX: 2, DY: 4})
	storage.Spawn(Position{})

	scheduler.Once(500 * time.Millisecond)

	pos := ecs.ReadComponent[Position](storage, id)
	assert.Equal(t, float32(1), pos.X)
	assert.Equal(t, float32(2), pos.Y)
	assert.Equal(t, 1, movement.ExecuteCount)
}

func TestSchedulerCommandsApplyAfterTick(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	counter := &counterSystem{}
	scheduler.Register(&spawnerSystem{})
	scheduler.Register(counter)

	scheduler.Once(time.Millisecond)
	scheduler.Once(time.Millisecond)
	scheduler.Once(time.Millisecond)

	assert.Equal(t, []int{0, 1, 2}, counter.Seen)
}

func TestSchedulerEvents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	scheduler.Register(&reaperSystem{})
	scheduler.Register(&obituarySystem{})

	dead := storage.Spawn(Health{Current: 0})
	storage.Spawn(Health{Current: 5})
	ecs.NewSingleton[Score](storage)

	scheduler.Once(time.Millisecond)
	assert.False(t, storage.Alive(dead))
	assert.Equal(t, 1, storage.PendingEvents())

	var total *Score
	require.True(t, storage.ReadSingleton(&total))
	assert.Equal(t, Score(1), *total)

	scheduler.Once(time.Millisecond)
	assert.Equal(t, 0, storage.PendingEvents())
	assert.Equal(t, Score(1), *total)
}

func TestSchedulerConditions(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	enabled := false
	runs := 0
	scheduler.Register(
		ecs.NamedSystem("gated", func(*ecs.UpdateFrame) { runs++ }),
		func(*ecs.Storage) bool { return enabled },
	)

	scheduler.Once(time.Millisecond)
	enabled = true
	scheduler.Once(time.Millisecond)

	assert.Equal(t, 1, runs)
	stats := scheduler.GetStats().Systems[0]
	assert.Equal(t, int64(1), stats.ExecutionCount)
	assert.Equal(t, int64(1), stats.SkipCount)
}

func TestSchedulerFrameDelta(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var frames []*ecs.UpdateFrame
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) { frames = append(frames, frame) }))
	scheduler.Once(250 * time.Millisecond)

	require.Len(t, frames, 1)
	assert.Equal(t, 250*time.Millisecond, frames[0].Delta)
	assert.InDelta(t, 0.25, frames[0].DeltaTime, 1e-9)
	assert.Same(t, storage, frames[0].Storage)
}

func TestSchedulerRun(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	ticks := make(chan struct{}, 100)
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond)
		close(done)
	}()

	<-ticks
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
