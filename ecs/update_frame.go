package ecs

import "time"

// UpdateFrame is what a system receives on every tick.
type UpdateFrame struct {
	// DeltaTime is the tick length in seconds.
	DeltaTime float64
	Delta     time.Duration
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt time.Duration, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt.Seconds(),
		Delta:     dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
