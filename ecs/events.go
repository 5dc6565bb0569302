package ecs

import (
	"iter"
	"reflect"
)

type eventQueue interface {
	clear()
	len() int
}

type eventBuffer[T any] struct {
	items []T
}

func (b *eventBuffer[T]) clear() { b.items = b.items[:0] }
func (b *eventBuffer[T]) len() int { return len(b.items) }

// ClearEvents empties every event queue. The Scheduler calls it at the start
// of each tick, so events live from the tick they are sent in until the next
// tick begins.
func (s *Storage) ClearEvents() {
	for _, q := range s.events {
		q.clear()
	}
}

// PendingEvents returns the total number of queued events of all types.
func (s *Storage) PendingEvents() int {
	n := 0
	for _, q := range s.events {
		n += q.len()
	}
	return n
}

// Events is a typed handle on the queue of T events. Senders and readers in
// the same tick share one queue; systems that run after the sender see the
// event.
type Events[T any] struct {
	buf *eventBuffer[T]
}

// NewEvents returns a handle on the T queue of storage.
func NewEvents[T any](storage *Storage) *Events[T] {
	e := &Events[T]{}
	e.Init(storage)
	return e
}

// Init binds the handle to storage, creating the queue on first use.
func (e *Events[T]) Init(storage *Storage) {
	t := reflect.TypeFor[T]()
	if q, ok := storage.events[t]; ok {
		e.buf = q.(*eventBuffer[T])
		return
	}
	e.buf = &eventBuffer[T]{}
	storage.events[t] = e.buf
}

// Send queues an event.
func (e *Events[T]) Send(event T) {
	e.buf.items = append(e.buf.items, event)
}

// Iter yields queued events in send order.
func (e *Events[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < len(e.buf.items); i++ {
			if !yield(e.buf.items[i]) {
				return
			}
		}
	}
}

// Len returns the number of queued events.
func (e *Events[T]) Len() int {
	return len(e.buf.items)
}
