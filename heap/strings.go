package heap

import "github.com/packdb/packdb/internal/format"

// Strings live in heap memory as a u32 byte length followed by the raw
// bytes, arena-allocated. The address is what crosses the host boundary; the
// host resolves it back to characters one page read at a time.

// stringHeaderBytes is the length prefix preceding string contents.
const stringHeaderBytes = 4

// AllocString stores s in heap memory and returns its address.
func (cx *Context) AllocString(s string) Addr {
	addr := cx.arena.Alloc(uint32(stringHeaderBytes + len(s)))
	b := cx.heap.Resolve(addr, stringHeaderBytes+len(s))
	format.PutU32(b, 0, uint32(len(s)))
	copy(b[stringHeaderBytes:], s)
	return addr
}

// ReadString returns the string stored at addr.
func (cx *Context) ReadString(addr Addr) string {
	return string(cx.StringBytes(addr))
}

// StringBytes returns the raw contents of the string at addr as a view into
// the owning page - no copy. The view is invalidated by overwriting or
// freeing the string's storage.
func (cx *Context) StringBytes(addr Addr) []byte {
	n := format.ReadU32(cx.heap.Resolve(addr, stringHeaderBytes), 0)
	return cx.heap.Resolve(addr, stringHeaderBytes+int(n))[stringHeaderBytes:]
}

// Intern stores s once and returns the shared address on every subsequent
// call with equal contents. The lookup table lives on the native side of the
// boundary; only the string bytes live in heap pages.
func (cx *Context) Intern(s string) Addr {
	if addr, ok := cx.interned[s]; ok {
		return addr
	}
	addr := cx.AllocString(s)
	cx.interned[s] = addr
	return addr
}
