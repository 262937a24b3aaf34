package heap

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Debug flag - set to true to enable internal invariant checks (compile-time toggle).
const debugHeap = false

// Runtime debug flag for allocation logging - controlled by PACKDB_LOG_ALLOC env var.
var logAlloc = os.Getenv("PACKDB_LOG_ALLOC") != ""

// Heap is the page store: an append-only sequence of raw pages backing every
// packed address. It is the only component that asks the runtime for memory.
//
// Pages are never moved, resized, or removed once created; a page index is
// permanent. Appends may interleave with resolves from the owning goroutine
// (the page table is published atomically), but a Heap is not safe for
// concurrent mutation from multiple goroutines.
type Heap struct {
	mu sync.Mutex // serializes page index assignment

	// pages has fixed length NumPages so the backing array never moves;
	// count publishes how many leading entries are live.
	pages [][]byte
	count atomic.Uint32

	// owners tags each page with the ID of the context that allocated it
	// (0 = unowned). Single-writer-per-page checks key off this table.
	owners []uint32

	// readOnly marks heaps whose pages alias a snapshot mapping.
	readOnly bool
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{
		pages:  make([][]byte, NumPages),
		owners: make([]uint32, NumPages),
	}
}

// fromPages builds a heap over an existing, already-ordered page list.
// Used by the deserializer and by mapped snapshot loading.
func fromPages(pages [][]byte, readOnly bool) *Heap {
	h := New()
	h.readOnly = readOnly
	for i, p := range pages {
		h.pages[i] = p
	}
	h.count.Store(uint32(len(pages)))
	return h
}

// AllocPage allocates a page of at least max(minSize, PageSize) bytes,
// appends it, and returns its index. The zeroed flag is part of the
// allocation contract; the Go runtime zero-fills all fresh pages, so both
// paths return all-zero memory.
//
// Exhausting the 16-bit page index space is fatal: there is no meaningful
// recovery from running out of address space at this layer, so AllocPage
// panics rather than returning an error.
func (h *Heap) AllocPage(minSize int, zeroed bool) uint32 {
	if h.readOnly {
		panic(ErrReadOnly)
	}
	n := minSize
	if n < PageSize {
		n = PageSize
	}
	page := make([]byte, n)

	h.mu.Lock()
	idx := h.count.Load()
	if idx >= NumPages {
		h.mu.Unlock()
		panic(fmt.Sprintf("heap: address space exhausted (%d pages)", NumPages))
	}
	h.pages[idx] = page
	h.count.Store(idx + 1)
	h.mu.Unlock()

	if logAlloc {
		fmt.Fprintf(os.Stderr, "heap: page %d (%d bytes, zeroed=%v)\n", idx, n, zeroed)
	}
	return idx
}

// PageCount returns the number of allocated pages.
func (h *Heap) PageCount() uint32 {
	return h.count.Load()
}

// Page returns the mutable contents of page index. This is the zero-copy
// seam: a host boundary hands out one page at a time as raw bytes.
// Panics if index has not been allocated.
func (h *Heap) Page(index uint32) []byte {
	if index >= h.count.Load() {
		panic(fmt.Sprintf("heap: page %d out of range (%d pages)", index, h.count.Load()))
	}
	return h.pages[index]
}

// PageLen returns the byte length of page index.
func (h *Heap) PageLen(index uint32) int {
	return len(h.Page(index))
}

// Resolve returns the n bytes at addr as a mutable slice.
//
// Resolving a stale or out-of-range address is a caller contract violation.
// It is not validated beyond Go's own slice bounds checks, which turn a bad
// address into a panic instead of silent corruption; the hot path carries no
// additional checking.
func (h *Heap) Resolve(addr Addr, n int) []byte {
	page, offset := addr.Split()
	return h.pages[page][offset : int(offset)+n]
}

// FindAddr performs the reverse lookup from a byte slice back into the packed
// address of its first byte, by linear scan of page bounds (O(pages)).
// Returns false if b does not point into this heap.
func (h *Heap) FindAddr(b []byte) (Addr, bool) {
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	for i := uint32(0); i < h.count.Load(); i++ {
		page := h.pages[i]
		start := uintptr(unsafe.Pointer(unsafe.SliceData(page)))
		if p >= start && p < start+uintptr(len(page)) {
			return Pack(i, uint32(p-start)), true
		}
	}
	return 0, false
}

// pageOwner returns the context ID that allocated page index (0 = unowned).
func (h *Heap) pageOwner(index uint32) uint32 {
	return h.owners[index]
}

// claimPage records owner as the owning context of page index.
func (h *Heap) claimPage(index, owner uint32) {
	h.owners[index] = owner
}

// Allocate satisfies Allocator by handing out a whole fresh page.
// Used for allocations that want page-at-a-time granularity.
func (h *Heap) Allocate(size uint32) Addr {
	return Pack(h.AllocPage(int(size), false), 0)
}

// AllocateZeroed satisfies Allocator; fresh pages are always zero-filled.
func (h *Heap) AllocateZeroed(size uint32) Addr {
	return Pack(h.AllocPage(int(size), true), 0)
}

// Deallocate is a no-op: pages live for the lifetime of the heap and are
// released together when the heap itself is garbage.
func (h *Heap) Deallocate(addr Addr, size uint32) {
	if logAlloc {
		fmt.Fprintf(os.Stderr, "heap: dealloc page %v ignored\n", addr)
	}
}

var _ Allocator = (*Heap)(nil)
