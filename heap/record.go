package heap

// Record is implemented by fixed-size values that live in heap pages. A
// record controls its own slot image: a little-endian byte layout of
// SlotBytes() bytes, written and read explicitly. The allocator layers never
// initialize or finalize slot contents themselves - they provision raw bytes
// and nothing more.
//
// Construct-in-place and destroy-in-place are explicit capabilities rather
// than an implicit destructor convention, so the lifecycle survives a
// language boundary: whoever holds the address decides when EncodeSlot and
// Finalize run.
type Record interface {
	// SlotBytes is the fixed encoded size of the record.
	SlotBytes() uint32

	// EncodeSlot writes the record's slot image into b (len >= SlotBytes).
	EncodeSlot(b []byte)

	// DecodeSlot reads the record's slot image from b (len >= SlotBytes).
	DecodeSlot(b []byte)
}

// SlabRecord marks records that opt into slab-backed allocation under a
// registered type ID. The context routes such records through their slab;
// plain Records go straight to the arena. The more specific capability wins.
type SlabRecord interface {
	Record

	// TypeID names the slab this record allocates from.
	TypeID() TypeID
}

// Finalizer is implemented by records that own other heap storage (child
// records, strings, vector backing runs) and must release it before their
// own slot is reused. Drop invokes Finalize exactly once, before the storage
// returns to its allocator.
type Finalizer interface {
	Finalize(cx *Context)
}

// Commit allocates space for r and writes its slot image, returning the
// packed address for storage in parent structures.
func (cx *Context) Commit(r Record) Addr {
	addr := cx.allocRecord(r)
	r.EncodeSlot(cx.heap.Resolve(addr, int(r.SlotBytes())))
	return addr
}

// Load reads the record at addr into r.
func (cx *Context) Load(addr Addr, r Record) {
	r.DecodeSlot(cx.heap.Resolve(addr, int(r.SlotBytes())))
}

// Drop destroys the record at addr: it is decoded into r, r's Finalize runs
// if implemented, and the storage returns to the record's allocator. The
// slot becomes eligible for reuse; finalization side effects happen exactly
// once even if the slot is recycled later.
func (cx *Context) Drop(addr Addr, r Record) {
	cx.Load(addr, r)
	if f, ok := r.(Finalizer); ok {
		f.Finalize(cx)
	}
	cx.deallocRecord(addr, r)
}

// allocRecord routes an allocation by capability: slab when the record has
// one, arena otherwise.
func (cx *Context) allocRecord(r Record) Addr {
	if sr, ok := r.(SlabRecord); ok {
		return cx.SlabFor(sr.TypeID()).Alloc(1)
	}
	return cx.arena.Alloc(r.SlotBytes())
}

// deallocRecord is the release half of allocRecord.
func (cx *Context) deallocRecord(addr Addr, r Record) {
	if sr, ok := r.(SlabRecord); ok {
		cx.SlabFor(sr.TypeID()).Dealloc(addr, 1)
		return
	}
	cx.arena.Dealloc(addr, r.SlotBytes())
}
