package heap

import "fmt"

// Address layout constants. A packed address is a uint32 whose high bits hold
// the page index and whose low bits hold the byte offset within that page.
const (
	// PageSize is the default page size in bytes. Pages may be larger when a
	// single allocation demands it, but never smaller.
	PageSize = 1 << 16

	// pageShift is log2(PageSize): the number of offset bits in an address.
	pageShift = 16

	// NumPages is the number of representable page indexes (2^32 / PageSize).
	NumPages = 1 << (32 - pageShift)

	// pageMask extracts the page index bits of an address.
	pageMask = uint32(NumPages-1) << pageShift

	// offsetMask extracts the offset bits of an address.
	offsetMask = uint32(1<<pageShift) - 1
)

// Addr is a 32-bit packed address: a page index plus an intra-page byte
// offset. It replaces native pointers everywhere a reference into the heap is
// stored, which is what lets heap contents be persisted and shared across a
// process boundary without fixups.
type Addr uint32

// Nil is the reserved "no address" sentinel. Address 0 (page 0, offset 0) is
// a valid allocation target, so 0 cannot serve as the null value; 1 can,
// because offset 1 is never returned by an 8-byte-aligned allocator.
const Nil Addr = 1

// Pack combines a page index and byte offset into a packed address.
// The codec performs no bounds validation; callers guarantee that page is a
// live page index and offset is within the page. Offsets wider than the
// offset field are truncated by masking.
func Pack(page, offset uint32) Addr {
	return Addr(page<<pageShift | offset&offsetMask)
}

// Split returns the page index and byte offset encoded in a.
func (a Addr) Split() (page, offset uint32) {
	return (uint32(a) & pageMask) >> pageShift, uint32(a) & offsetMask
}

// PageIndex returns the page index bits of a.
func (a Addr) PageIndex() uint32 {
	return (uint32(a) & pageMask) >> pageShift
}

// Offset returns the intra-page byte offset bits of a.
func (a Addr) Offset() uint32 {
	return uint32(a) & offsetMask
}

// IsNil reports whether a is the Nil sentinel.
func (a Addr) IsNil() bool {
	return a == Nil
}

// String formats the address as page:offset for diagnostics.
func (a Addr) String() string {
	if a.IsNil() {
		return "nil"
	}
	p, o := a.Split()
	return fmt.Sprintf("%d:%d", p, o)
}
