package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlabAllocator_SizesBecomeSlotCounts(t *testing.T) {
	s := NewSlab(NewArena(New()), 16)
	sa := NewSlabAllocator(s)

	run := sa.Allocate(16 * 4)
	other := sa.Allocate(16)
	require.NotEqual(t, run, other)

	sa.Deallocate(run, 16*4)
	assert.Equal(t, uint32(4), s.FreeSlots())

	// The freed 4-slot run satisfies a later 4-slot request.
	assert.Equal(t, run, sa.Allocate(16*4))
}

// TestSlabAllocator_ZeroedClearsRecycledSlots is the zero-fill invariant:
// reused slots carry stale bytes, and AllocateZeroed must scrub them before
// handing them out.
func TestSlabAllocator_ZeroedClearsRecycledSlots(t *testing.T) {
	s := NewSlab(NewArena(New()), 8)
	sa := NewSlabAllocator(s)

	addr := sa.Allocate(32)
	copy(s.heap.Resolve(addr, 32), "stale bytes from a past life!!!!")
	sa.Deallocate(addr, 32)

	got := sa.AllocateZeroed(32)
	require.Equal(t, addr, got)
	for i, b := range s.heap.Resolve(got, 32) {
		require.Zerof(t, b, "byte %d not cleared", i)
	}
}

func TestArenaAllocator_Adapts(t *testing.T) {
	h := New()
	a := NewArena(h)
	aa := NewArenaAllocator(a)

	first := aa.Allocate(16)
	assert.Equal(t, Pack(0, 0), first)

	// Dirty the cursor region, free at end, and verify the zeroed variant
	// scrubs the reclaimed bytes.
	last := aa.Allocate(8)
	copy(h.Resolve(last, 8), "junkjunk")
	aa.Deallocate(last, 8)

	got := aa.AllocateZeroed(8)
	require.Equal(t, last, got)
	assert.Equal(t, make([]byte, 8), h.Resolve(got, 8))
}
