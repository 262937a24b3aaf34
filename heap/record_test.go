package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packdb/packdb/internal/format"
)

const depType TypeID = 3

// dep is a slab-backed test record: a dependency edge holding an interned
// source string and the address of the next edge.
type dep struct {
	kind uint32
	src  Addr
	next Addr
}

func (d *dep) SlotBytes() uint32 { return 12 }

func (d *dep) EncodeSlot(b []byte) {
	format.PutU32(b, 0, d.kind)
	format.PutU32(b, 4, uint32(d.src))
	format.PutU32(b, 8, uint32(d.next))
}

func (d *dep) DecodeSlot(b []byte) {
	d.kind = format.ReadU32(b, 0)
	d.src = Addr(format.ReadU32(b, 4))
	d.next = Addr(format.ReadU32(b, 8))
}

func (d *dep) TypeID() TypeID { return depType }

// marker is an arena-backed record that counts its finalizations through a
// native-side pointer.
type marker struct {
	value     uint32
	finalized *int
}

func (m *marker) SlotBytes() uint32    { return 4 }
func (m *marker) EncodeSlot(b []byte)  { format.PutU32(b, 0, m.value) }
func (m *marker) DecodeSlot(b []byte)  { m.value = format.ReadU32(b, 0) }
func (m *marker) Finalize(cx *Context) { *m.finalized++ }

func TestRecord_CommitLoadRoundTrip(t *testing.T) {
	cx := NewContext(New())
	cx.RegisterType(depType, (&dep{}).SlotBytes())

	in := dep{kind: 2, src: Pack(0, 128), next: Nil}
	addr := cx.Commit(&in)

	var out dep
	cx.Load(addr, &out)
	assert.Equal(t, in, out)
}

// TestRecord_SlabRoutingOverridesArena verifies the capability override: a
// record with a type ID allocates through its slab, so dropping and
// recommitting reuses the freed slot instead of advancing the arena.
func TestRecord_SlabRoutingOverridesArena(t *testing.T) {
	cx := NewContext(New())
	cx.RegisterType(depType, (&dep{}).SlotBytes())

	first := cx.Commit(&dep{kind: 1, src: Nil, next: Nil})
	second := cx.Commit(&dep{kind: 2, src: Nil, next: Nil})
	require.NotEqual(t, first, second)

	var scratch dep
	cx.Drop(first, &scratch)

	third := cx.Commit(&dep{kind: 3, src: Nil, next: Nil})
	assert.Equal(t, first, third, "slab must reuse the dropped slot")
}

func TestRecord_ArenaRouting(t *testing.T) {
	cx := NewContext(New())

	// No type registration: markers go straight through the arena.
	a1 := cx.Commit(&marker{value: 7, finalized: new(int)})
	a2 := cx.Commit(&marker{value: 8, finalized: new(int)})
	assert.Equal(t, Pack(0, 0), a1)
	assert.Equal(t, Pack(0, 8), a2)
}

// TestRecord_FinalizerRunsExactlyOnce drops a record, reuses its storage,
// and drops again: each drop finalizes its own value exactly once, and slot
// reuse must not replay the old value's side effects.
func TestRecord_FinalizerRunsExactlyOnce(t *testing.T) {
	cx := NewContext(New())
	fins := 0

	addr := cx.Commit(&marker{value: 1, finalized: &fins})
	cx.Drop(addr, &marker{finalized: &fins})
	require.Equal(t, 1, fins)

	// The arena rewound, so this commit reuses the same storage.
	again := cx.Commit(&marker{value: 2, finalized: &fins})
	require.Equal(t, addr, again)
	require.Equal(t, 1, fins, "reusing storage must not finalize anything")

	cx.Drop(again, &marker{finalized: &fins})
	assert.Equal(t, 2, fins)
}

func TestRecord_DropDecodesBeforeFinalize(t *testing.T) {
	cx := NewContext(New())
	fins := 0

	addr := cx.Commit(&marker{value: 42, finalized: &fins})

	out := marker{finalized: &fins}
	cx.Drop(addr, &out)
	assert.Equal(t, uint32(42), out.value, "Drop must decode the stored value before finalizing")
}

func TestRecord_FinalizerReleasesOwnedStorage(t *testing.T) {
	cx := NewContext(New())
	cx.RegisterType(depType, (&dep{}).SlotBytes())

	// A chain of two edges; dropping the head releases the tail through its
	// finalizer.
	tail := cx.Commit(&dep{kind: 2, src: Nil, next: Nil})
	head := cx.Commit(&chainDep{dep{kind: 1, src: Nil, next: tail}})

	var scratch chainDep
	cx.Drop(head, &scratch)

	// Both slots are back on the slab's free list.
	assert.Equal(t, uint32(2), cx.SlabFor(depType).FreeSlots())
}

// chainDep is a dep whose finalizer drops the next edge in the chain.
type chainDep struct {
	dep
}

func (c *chainDep) Finalize(cx *Context) {
	if c.next != Nil {
		var next chainDep
		cx.Drop(c.next, &next)
	}
}
