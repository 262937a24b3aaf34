package heap

import (
	"fmt"

	"github.com/packdb/packdb/internal/format"
)

// MapHeap builds a read-only heap over an in-memory page stream image (the
// WriteTo format), with every page aliasing a subrange of data - no copying.
// The caller keeps data alive (and unmaps it, if mapped) for as long as the
// heap is in use.
//
// Because pages alias foreign memory, the resulting heap rejects page
// allocation; it serves resolves only. Resolved slices inherit whatever
// protection data carries: over a read-only mapping a write through them is
// an OS-level fault, not a Go panic.
func MapHeap(data []byte) (*Heap, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: page count: image is %d bytes", ErrTruncatedStream, len(data))
	}
	count := format.ReadU32(data, 0)
	if count > NumPages {
		return nil, fmt.Errorf("%w: page count %d exceeds %d", ErrMalformedStream, count, NumPages)
	}

	pages := make([][]byte, 0, count)
	off := 4
	for i := uint32(0); i < count; i++ {
		if len(data)-off < 4 {
			return nil, fmt.Errorf("%w: page %d length", ErrTruncatedStream, i)
		}
		plen := format.ReadU32(data, off)
		off += 4
		if plen == 0 || plen > maxStreamPage {
			return nil, fmt.Errorf("%w: page %d length %d", ErrMalformedStream, i, plen)
		}
		if uint64(len(data)-off) < uint64(plen) {
			return nil, fmt.Errorf("%w: page %d: %d bytes left, need %d", ErrTruncatedStream, i, len(data)-off, plen)
		}
		pages = append(pages, data[off:off+int(plen):off+int(plen)])
		off += int(plen)
	}
	return fromPages(pages, true), nil
}
