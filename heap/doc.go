// Package heap implements a page-backed memory heap addressed by 32-bit
// packed addresses instead of native pointers.
//
// # Overview
//
// A Heap owns an append-only sequence of raw pages. Every reference into the
// heap is an Addr: a uint32 combining a page index (high 16 bits) with a byte
// offset inside that page (low 16 bits). Because pages are never moved,
// resized, or removed, an Addr stays valid for the life of the heap - and,
// via the snapshot stream, across process restarts. Consumers store addresses
// in their data structures and resolve them to bytes only at the moment of
// use.
//
// # Allocators
//
// Three allocation layers build on the page store:
//
//   - Heap itself hands out whole pages (used for large, page-sized
//     allocations and as the backing source for everything else).
//   - Arena bump-allocates 8-byte-aligned runs out of the current page,
//     claiming a fresh page when the cursor overflows. Only the most recent
//     allocation at the end of the current page can be reclaimed.
//   - Slab layers a first-fit free list on the arena, one slab per logical
//     record type, with fixed-size slots. Free-list nodes live inside the
//     freed slots themselves, so the slab needs no auxiliary bookkeeping
//     memory.
//
// All three satisfy the Allocator interface, which is the only contract
// external consumers (typed records, the growable Vec, the string pool)
// depend on:
//
//	addr := a.Allocate(size)
//	b := h.Resolve(addr, int(size))
//	// ... write into b ...
//	a.Deallocate(addr, size)
//
// # Context
//
// A Context bundles the heap, its arena, the per-type slab registry, and the
// string intern table for one owning goroutine. Allocation calls route
// through the context rather than through globals:
//
//	h := heap.New()
//	cx := heap.NewContext(h)
//	cx.RegisterType(nodeType, nodeSlotBytes)
//	addr := cx.Alloc(nodeType)
//
// # Persistence
//
// Heap.WriteTo and ReadHeap stream the page store as a page count followed by
// length-prefixed raw page dumps, in allocation order. Reload is bit-exact:
// an Addr captured before serialization resolves to the same bytes after.
// The snapshot package wraps this stream in a file container with optional
// compression and memory-mapped zero-copy loading.
//
// # Concurrency
//
// Page appends are safe to interleave with resolves (index assignment is
// atomic), but a Heap, Arena, Slab, or Context is not safe for concurrent
// mutation from multiple goroutines. The intended pattern is one context per
// worker goroutine; page contents are written only by the context that
// allocated them.
//
// # Failure model
//
// Only serialization I/O and malformed snapshot streams surface as errors.
// Everything else - address-space exhaustion, resolving a garbage address,
// using an unregistered type - is an invariant violation and panics.
package heap
