package heap

import (
	"fmt"
	"io"

	"github.com/packdb/packdb/internal/format"
)

// Page stream framing (all integers little-endian):
//
//	u32 page_count
//	repeated page_count times:
//	  u32 page_byte_length
//	  page_byte_length raw bytes
//
// Pages are written and read back in allocation order, which is what keeps
// previously packed addresses valid after a reload.

// maxStreamPage caps the length a single serialized page may declare.
// Real pages are bounded by the 31-bit allocation sizes the allocators
// accept; anything larger marks a corrupt stream, not a big heap.
const maxStreamPage = 1<<31 - 1

// WriteTo serializes the page store to w. Implements io.WriterTo.
// I/O failures propagate to the caller.
func (h *Heap) WriteTo(w io.Writer) (int64, error) {
	var hdr [4]byte
	var n int64

	count := h.count.Load()
	format.PutU32(hdr[:], 0, count)
	written, err := w.Write(hdr[:])
	n += int64(written)
	if err != nil {
		return n, fmt.Errorf("heap: write page count: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		page := h.pages[i]
		format.PutU32(hdr[:], 0, uint32(len(page)))
		written, err = w.Write(hdr[:])
		n += int64(written)
		if err != nil {
			return n, fmt.Errorf("heap: write page %d length: %w", i, err)
		}
		written, err = w.Write(page)
		n += int64(written)
		if err != nil {
			return n, fmt.Errorf("heap: write page %d: %w", i, err)
		}
	}
	return n, nil
}

// ReadHeap deserializes a page stream written by WriteTo into a fresh heap.
// Pages are recreated in their original order and length, so addresses
// packed against the source heap resolve to identical bytes in the result.
//
// A truncated or malformed stream returns an error and installs nothing.
func ReadHeap(r io.Reader) (*Heap, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: page count: %w", ErrTruncatedStream, err)
	}
	count := format.ReadU32(hdr[:], 0)
	if count > NumPages {
		return nil, fmt.Errorf("%w: page count %d exceeds %d", ErrMalformedStream, count, NumPages)
	}

	pages := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: page %d length: %w", ErrTruncatedStream, i, err)
		}
		plen := format.ReadU32(hdr[:], 0)
		if plen == 0 || plen > maxStreamPage {
			return nil, fmt.Errorf("%w: page %d length %d", ErrMalformedStream, i, plen)
		}
		page := make([]byte, plen)
		if _, err := io.ReadFull(r, page); err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrTruncatedStream, i, err)
		}
		pages = append(pages, page)
	}
	return fromPages(pages, false), nil
}
