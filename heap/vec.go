package heap

import "fmt"

// Vec is a growable sequence whose backing storage lives in the packed
// address space instead of the process heap. Elements are fixed-size record
// slots; the backing run is obtained from any Allocator, so a Vec can sit on
// a slab (reusing freed runs), the arena, or whole pages.
//
// Growth allocates a run of doubled capacity, copies the live slots, and
// returns the old run to the allocator. Addresses of individual elements are
// therefore NOT stable across Push; parents should store the Vec, not
// element addresses.
type Vec struct {
	alloc Allocator
	heap  *Heap

	addr Addr // backing run, Nil while empty
	len  uint32
	cap  uint32
	slot uint32
}

// minVecCap is the capacity of the first backing run.
const minVecCap = 4

// NewVec returns an empty vector of slotBytes-sized elements backed by a.
func NewVec(h *Heap, a Allocator, slotBytes uint32) *Vec {
	return &Vec{
		alloc: a,
		heap:  h,
		addr:  Nil,
		slot:  slotSize(slotBytes),
	}
}

// NewSlabVec returns an empty vector whose storage comes from the slab
// registered for id; element size is the slab's slot size.
func (cx *Context) NewSlabVec(id TypeID) *Vec {
	s := cx.SlabFor(id)
	return NewVec(cx.heap, NewSlabAllocator(s), s.slot)
}

// Len returns the number of elements.
func (v *Vec) Len() uint32 {
	return v.len
}

// Cap returns the current capacity in elements.
func (v *Vec) Cap() uint32 {
	return v.cap
}

// Addr returns the address of the backing run (Nil while empty). Exposed for
// consumers that persist the vector and re-resolve it after a reload.
func (v *Vec) Addr() Addr {
	return v.addr
}

// Push appends r.
func (v *Vec) Push(r Record) {
	if v.len == v.cap {
		v.grow()
	}
	r.EncodeSlot(v.slotAt(v.len))
	v.len++
}

// Get reads element i into r. Out-of-range indexes panic.
func (v *Vec) Get(i uint32, r Record) {
	v.check(i)
	r.DecodeSlot(v.slotAt(i))
}

// Set overwrites element i with r. Out-of-range indexes panic.
func (v *Vec) Set(i uint32, r Record) {
	v.check(i)
	r.EncodeSlot(v.slotAt(i))
}

// Free returns the backing run to the allocator and empties the vector.
// Element contents are not finalized; callers that store owning records must
// Drop them first.
func (v *Vec) Free() {
	if v.addr != Nil {
		v.alloc.Deallocate(v.addr, v.cap*v.slot)
	}
	v.addr = Nil
	v.len = 0
	v.cap = 0
}

func (v *Vec) check(i uint32) {
	if i >= v.len {
		panic(fmt.Sprintf("heap: vec index %d out of range (len %d)", i, v.len))
	}
}

// slotAt returns the byte window of element i. The backing run is contiguous
// within a single page by construction (each growth is one allocation), so the
// element is located by page-relative offset rather than packed-address
// arithmetic, which would carry into the page index once the run passes the
// 16-bit offset field.
func (v *Vec) slotAt(i uint32) []byte {
	page, off := v.addr.Split()
	start := int(off) + int(i)*int(v.slot)
	return v.heap.Page(page)[start : start+int(v.slot)]
}

// grow doubles the capacity, copying live slots into the new run and freeing
// the old one through the same allocator.
func (v *Vec) grow() {
	newCap := v.cap * 2
	if newCap < minVecCap {
		newCap = minVecCap
	}
	newAddr := v.alloc.Allocate(newCap * v.slot)
	if v.addr != Nil {
		copy(v.heap.Resolve(newAddr, int(v.len*v.slot)), v.heap.Resolve(v.addr, int(v.len*v.slot)))
		v.alloc.Deallocate(v.addr, v.cap*v.slot)
	}
	v.addr = newAddr
	v.cap = newCap
}
