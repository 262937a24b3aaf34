package heap

import "github.com/packdb/packdb/internal/format"

// Arena is a bump (watermark) allocator carving sequential 8-byte-aligned
// runs out of heap pages. It holds the packed address of the next free byte
// in the current page and claims a fresh page from the heap when the cursor
// would overflow.
//
// The arena reclaims memory in exactly one case: when the freed run is the
// most recent allocation at the end of the current page. Interior holes are
// never reclaimed here - general reuse is the slab layer's job.
//
// Not safe for concurrent use; each owning context carries its own arena.
type Arena struct {
	heap *Heap

	// cursor is the packed address of the next free byte, or Nil before the
	// first page has been claimed.
	cursor Addr

	// owner is the ID of the context this arena belongs to; freshly claimed
	// pages are tagged with it.
	owner uint32
}

// NewArena returns an arena allocating out of h.
func NewArena(h *Heap) *Arena {
	return &Arena{heap: h, cursor: Nil}
}

// Heap returns the page store this arena allocates from.
func (a *Arena) Heap() *Heap {
	return a.heap
}

// claimPage allocates a page sized for at least size bytes and tags it with
// the arena's owner.
func (a *Arena) claimPage(size uint32) uint32 {
	page := a.heap.AllocPage(int(size), false)
	a.heap.claimPage(page, a.owner)
	return page
}

// Alloc returns the packed address of a fresh run of size bytes, rounded up
// to 8-byte alignment. Allocations within one page return strictly
// increasing addresses; a new page is started when the running offset would
// reach the end of the current page.
//
// Runs larger than the offset field of an address get a dedicated page and
// should be resolved through that page as a whole. The bump cursor does not
// track them past the offset mask: it wraps, so the next small allocation
// lands back inside the oversized run and overlaps its leading bytes. Callers
// holding an oversized run must not bump-allocate small runs from the same
// arena while the run is live.
func (a *Arena) Alloc(size uint32) Addr {
	size = format.Align8U32(size)

	if a.cursor == Nil {
		page := a.claimPage(size)
		a.cursor = Pack(page, size)
		return Pack(page, 0)
	}

	page, offset := a.cursor.Split()
	if debugHeap {
		a.checkOwner(page)
	}
	if int(offset)+int(size) >= a.heap.PageLen(page) {
		page = a.claimPage(size)
		a.cursor = Pack(page, size)
		return Pack(page, 0)
	}

	addr := a.cursor
	a.cursor += Addr(size)
	return addr
}

// Dealloc gives size bytes at addr back to the arena. Reclamation happens
// only when the run ends exactly at the cursor, i.e. it was the most recent
// allocation at the end of the current page; any other free is a no-op.
// The size is rounded to 8 bytes the same way Alloc rounded it.
func (a *Arena) Dealloc(addr Addr, size uint32) {
	if a.cursor == Nil {
		return
	}
	size = format.Align8U32(size)

	page, offset := a.cursor.Split()
	if offset == 0 {
		return
	}
	fpage, foffset := addr.Split()
	if fpage == page && foffset+size == offset {
		a.cursor -= Addr(size)
	}
}

// checkOwner verifies the single-writer invariant: the current page must
// belong to this arena's context.
func (a *Arena) checkOwner(page uint32) {
	if got := a.heap.pageOwner(page); got != a.owner {
		panic("heap: arena writing page owned by another context")
	}
}
