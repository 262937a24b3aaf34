package heap

import "fmt"

// Allocator is the capability contract consumed by everything that stores
// data in the packed address space: typed records, growable containers, and
// external callers across the host boundary. Callers depend only on this
// interface, never on slab or arena mechanics.
//
// Implementations:
//   - Heap: whole-page allocations, deallocation is a no-op
//   - ArenaAllocator: bump allocation, end-of-page-only reclamation
//   - SlabAllocator: fixed-slot free-list allocation with reuse
type Allocator interface {
	// Allocate returns the address of a fresh run of at least size bytes.
	// The contents are unspecified (reused slots carry stale bytes).
	Allocate(size uint32) Addr

	// AllocateZeroed is Allocate with the run cleared to zero bytes.
	AllocateZeroed(size uint32) Addr

	// Deallocate returns the run at addr, previously obtained from Allocate
	// with the same size, to the allocator.
	Deallocate(addr Addr, size uint32)
}

// ArenaAllocator adapts an Arena to the Allocator contract.
type ArenaAllocator struct {
	arena *Arena
}

// NewArenaAllocator wraps arena.
func NewArenaAllocator(arena *Arena) ArenaAllocator {
	return ArenaAllocator{arena: arena}
}

func (aa ArenaAllocator) Allocate(size uint32) Addr {
	return aa.arena.Alloc(size)
}

func (aa ArenaAllocator) AllocateZeroed(size uint32) Addr {
	addr := aa.arena.Alloc(size)
	clear(aa.arena.heap.Resolve(addr, int(size)))
	return addr
}

func (aa ArenaAllocator) Deallocate(addr Addr, size uint32) {
	aa.arena.Dealloc(addr, size)
}

// SlabAllocator adapts a Slab to the Allocator contract so ordinary growable
// containers can live in slab-managed storage. Sizes are converted to slot
// counts; callers must request whole multiples of the slab's slot size.
type SlabAllocator struct {
	slab *Slab
}

// NewSlabAllocator wraps slab.
func NewSlabAllocator(slab *Slab) SlabAllocator {
	return SlabAllocator{slab: slab}
}

func (sa SlabAllocator) count(size uint32) uint32 {
	if debugHeap && size%sa.slab.slot != 0 {
		panic(fmt.Sprintf("heap: slab allocate size %d not a multiple of slot %d", size, sa.slab.slot))
	}
	return size / sa.slab.slot
}

func (sa SlabAllocator) Allocate(size uint32) Addr {
	return sa.slab.Alloc(sa.count(size))
}

func (sa SlabAllocator) AllocateZeroed(size uint32) Addr {
	count := sa.count(size)
	addr := sa.slab.Alloc(count)
	clear(sa.slab.heap.Resolve(addr, int(count*sa.slab.slot)))
	return addr
}

func (sa SlabAllocator) Deallocate(addr Addr, size uint32) {
	sa.slab.Dealloc(addr, sa.count(size))
}

var (
	_ Allocator = ArenaAllocator{}
	_ Allocator = SlabAllocator{}
)
