package heap

import (
	"fmt"
	"os"

	"github.com/packdb/packdb/internal/format"
)

// Free node layout, stored inside the freed memory itself:
//
//	u32 slots  - number of contiguous free slots in this run
//	u32 next   - address of the next free run, or Nil
//
// Threading the list through the freed slots means the slab needs no
// auxiliary allocation of its own, at the cost of a minimum slot size.
const (
	freeNodeBytes    = 8
	freeNodeSlotsOff = 0
	freeNodeNextOff  = 4
)

// Slab is a free-list allocator layered on the arena, one per logical record
// type. All slots of a slab share one fixed size, which is what makes freed
// runs reusable by any future allocation from the same slab.
//
// Allocation is first-fit: the list is walked from the head and the first run
// with enough slots wins. An oversized run shrinks in place - the node keeps
// its position and list links, and the tail slots are handed out. Freed runs
// are pushed on the head in O(1). Adjacent free runs are not coalesced.
//
// A slab never returns memory to the arena.
type Slab struct {
	heap  *Heap
	arena *Arena

	// slot is the fixed slot size in bytes:
	// max(record size, free node size), rounded to 8-byte alignment.
	slot uint32

	// freeHead roots the free list, Nil when empty.
	freeHead Addr
}

// slotSize normalizes a record size to the slab's fixed slot size: raised to
// the free node size and 8-byte aligned, so every freed slot can hold its
// own list node and slot strides stay aligned.
func slotSize(recordBytes uint32) uint32 {
	if recordBytes < freeNodeBytes {
		recordBytes = freeNodeBytes
	}
	return format.Align8U32(recordBytes)
}

// NewSlab returns a slab whose slots hold recordBytes-byte records, drawing
// fresh memory from arena.
func NewSlab(arena *Arena, recordBytes uint32) *Slab {
	return &Slab{
		heap:     arena.Heap(),
		arena:    arena,
		slot:     slotSize(recordBytes),
		freeHead: Nil,
	}
}

// SlotBytes returns the fixed per-slot size in bytes.
func (s *Slab) SlotBytes() uint32 {
	return s.slot
}

// Alloc returns the address of count contiguous slots, reusing freed runs
// before asking the arena for fresh memory.
func (s *Slab) Alloc(count uint32) Addr {
	if s.freeHead != Nil {
		addr := s.freeHead
		prev := Nil // address of the node whose next field links addr; Nil = list head
		for {
			node := s.heap.Resolve(addr, freeNodeBytes)
			slots := format.ReadU32(node, freeNodeSlotsOff)
			next := Addr(format.ReadU32(node, freeNodeNextOff))
			if slots >= count {
				if count < slots {
					// Shrink in place: the node keeps its identity and
					// links, the tail slots are handed out.
					format.PutU32(node, freeNodeSlotsOff, slots-count)
					addr += Addr(s.slot * (slots - count))
				} else {
					s.unlink(prev, next)
				}
				if logAlloc {
					fmt.Fprintf(os.Stderr, "slab(%d): reused %v x%d\n", s.slot, addr, count)
				}
				return addr
			}
			if next == Nil {
				break
			}
			prev = addr
			addr = next
		}
	}

	return s.arena.Alloc(s.slot * count)
}

// Dealloc returns count slots at addr to the slab by writing a free node
// into the slots themselves and making it the new list head. O(1), no
// coalescing with adjacent runs.
func (s *Slab) Dealloc(addr Addr, count uint32) {
	if logAlloc {
		fmt.Fprintf(os.Stderr, "slab(%d): free %v x%d\n", s.slot, addr, count)
	}
	node := s.heap.Resolve(addr, freeNodeBytes)
	format.PutU32(node, freeNodeSlotsOff, count)
	format.PutU32(node, freeNodeNextOff, uint32(s.freeHead))
	s.freeHead = addr
}

// unlink removes the node after prev from the free list, splicing in next.
// prev == Nil means the node is the list head.
func (s *Slab) unlink(prev, next Addr) {
	if prev == Nil {
		s.freeHead = next
		return
	}
	node := s.heap.Resolve(prev, freeNodeBytes)
	format.PutU32(node, freeNodeNextOff, uint32(next))
}

// FreeSlots walks the free list and returns the total number of reusable
// slots. Intended for tests and diagnostics, not the hot path.
func (s *Slab) FreeSlots() uint32 {
	var total uint32
	for addr := s.freeHead; addr != Nil; {
		node := s.heap.Resolve(addr, freeNodeBytes)
		total += format.ReadU32(node, freeNodeSlotsOff)
		addr = Addr(format.ReadU32(node, freeNodeNextOff))
	}
	return total
}
