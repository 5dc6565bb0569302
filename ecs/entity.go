package ecs

import "fmt"

// EntityId is an opaque handle into the arena. The upper 32 bits name the
// archetype, the lower 32 bits the slot inside that archetype's columns.
// The zero value never refers to a live entity.
type EntityId uint64

// NewEntityId packs an archetype ID and slot index into an EntityId
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId returns the archetype half of the handle
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index returns the slot half of the handle
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}

// EntityRef is a handle that survives slot reuse. When the entity it names is
// deleted the ref is cleared (Id == 0) instead of silently pointing at
// whatever entity takes the slot next.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Valid reports whether the referenced entity still exists
func (r *EntityRef) Valid() bool {
	return r != nil && r.Id != 0
}
