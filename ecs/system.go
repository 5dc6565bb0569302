package ecs

// System is one step of the per-tick pipeline. Systems may carry Query,
// Singleton and Events fields; the Scheduler binds them on Register.
type System interface {
	Execute(frame *UpdateFrame)
}

// Condition gates a system for one tick.
type Condition func(storage *Storage) bool

// SystemFunc adapts a plain function to System.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

type namedSystem struct {
	name string
	fn   func(frame *UpdateFrame)
}

func (s *namedSystem) Execute(frame *UpdateFrame) { s.fn(frame) }
func (s *namedSystem) Name() string               { return s.name }

// NamedSystem is SystemFunc with a name for the scheduler stats.
func NamedSystem(name string, fn func(frame *UpdateFrame)) System {
	return &namedSystem{name: name, fn: fn}
}
