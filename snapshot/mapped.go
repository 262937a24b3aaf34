package snapshot

import (
	"fmt"

	"github.com/packdb/packdb/heap"
	"github.com/packdb/packdb/internal/mmfile"
)

// Mapped is a snapshot served zero-copy out of a memory mapping: heap pages
// alias the mapped file bytes instead of copies. The heap is read-only; the
// mapping stays alive until Close.
type Mapped struct {
	h       *heap.Heap
	cleanup func() error
}

// OpenMapped maps the snapshot file at path and builds a read-only heap over
// it without copying page contents. Only raw-codec snapshots can be mapped;
// compressed ones must go through Load.
func OpenMapped(path string) (*Mapped, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: map %s: %w", path, err)
	}

	h, err := mapImage(data)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &Mapped{h: h, cleanup: cleanup}, nil
}

// mapImage validates the container header in a mapped image and builds the
// aliasing heap.
func mapImage(data []byte) (*heap.Heap, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file is %d bytes", ErrBadMagic, len(data))
	}
	_, codec, err := parseHeader(data[:headerSize])
	if err != nil {
		return nil, err
	}
	if codec != CodecRaw {
		return nil, ErrMappedCompressed
	}
	return heap.MapHeap(data[headerSize:])
}

// Heap returns the mapped, read-only heap. Slices resolved from it alias the
// read-only mapping: writing through them faults the process at the OS level
// rather than raising a Go panic, so they must be treated as immutable.
func (m *Mapped) Heap() *heap.Heap {
	return m.h
}

// Close releases the mapping. Addresses resolved from the heap become
// invalid; resolving after Close is a use-after-unmap bug.
func (m *Mapped) Close() error {
	return m.cleanup()
}
