package heap

import (
	"fmt"
	"sync/atomic"
)

// TypeID names a logical record type across the host boundary. The host side
// allocates and frees records by type ID without knowing slot layouts.
type TypeID uint32

// nextContextID hands out unique owner tags for page ownership tracking.
var nextContextID atomic.Uint32

// Context bundles the current heap, its arena, the per-type slab registry,
// and the string intern table for one owning goroutine. Every allocation
// call routes through a context; there is no process-global state.
//
// A context is not safe for concurrent use. The intended pattern is one
// context per worker goroutine, each with a private arena over a shared or
// private heap; pages are written only by the context that allocated them.
type Context struct {
	heap  *Heap
	arena *Arena
	slabs map[TypeID]*Slab

	// interned maps string contents to their heap address, so repeated
	// interns of equal strings share storage.
	interned map[string]Addr

	// id tags pages this context's arena claims.
	id uint32
}

// NewContext returns a context allocating out of h with a fresh arena.
// A nil heap is a setup bug, not a runtime condition, and panics.
func NewContext(h *Heap) *Context {
	if h == nil {
		panic("heap: NewContext called with nil heap")
	}
	cx := &Context{
		heap:     h,
		arena:    NewArena(h),
		slabs:    make(map[TypeID]*Slab),
		interned: make(map[string]Addr),
		id:       nextContextID.Add(1),
	}
	cx.arena.owner = cx.id
	return cx
}

// Heap returns the context's page store.
func (cx *Context) Heap() *Heap {
	return cx.heap
}

// Arena returns the context's bump allocator.
func (cx *Context) Arena() *Arena {
	return cx.arena
}

// RegisterType creates the slab for a record type. Registering the same ID
// twice with the same slot size is a no-op; changing the size of a live type
// is a programming error and panics.
func (cx *Context) RegisterType(id TypeID, slotBytes uint32) *Slab {
	if s, ok := cx.slabs[id]; ok {
		want := slotSize(slotBytes)
		if s.slot != want {
			panic(fmt.Sprintf("heap: type %d re-registered with slot %d (have %d)", id, want, s.slot))
		}
		return s
	}
	s := NewSlab(cx.arena, slotBytes)
	cx.slabs[id] = s
	return s
}

// SlabFor returns the slab registered for id. Using an unregistered type is
// a setup bug and panics.
func (cx *Context) SlabFor(id TypeID) *Slab {
	s, ok := cx.slabs[id]
	if !ok {
		panic(fmt.Sprintf("heap: type %d not registered", id))
	}
	return s
}

// Alloc allocates one record of the given type through its slab. This is the
// surface the host boundary calls: it holds only the type ID and the
// returned address, never a pointer.
func (cx *Context) Alloc(id TypeID) Addr {
	return cx.SlabFor(id).Alloc(1)
}

// Dealloc returns one record of the given type to its slab.
func (cx *Context) Dealloc(id TypeID, addr Addr) {
	cx.SlabFor(id).Dealloc(addr, 1)
}
