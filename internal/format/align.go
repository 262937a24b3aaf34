package format

// Alignment utilities. Every heap allocation is rounded up to an 8-byte
// boundary so that slot images may hold 64-bit fields without splitting them
// across alignment units.

// AlignMask is the mask for 8-byte alignment.
const AlignMask = 7

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignMask) & ^AlignMask
}

// Align8U32 returns n aligned up to the next 8-byte boundary.
// uint32 version for use in allocator code, where sizes are 32-bit.
func Align8U32(n uint32) uint32 {
	return (n + AlignMask) & ^uint32(AlignMask)
}
