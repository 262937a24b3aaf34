// Package snapshot wraps the heap's raw page stream in a small file
// container: a magic/version header, a codec tag, and the payload, optionally
// s2-compressed. Uncompressed snapshots can also be memory-mapped and served
// zero-copy, with heap pages aliasing the mapping.
//
// Layout:
//
//	0x00  4 bytes  magic "PKDB"
//	0x04  1 byte   format version (currently 1)
//	0x05  1 byte   codec (0 = raw, 1 = s2)
//	0x06  ...      page stream (s2-framed when codec is s2)
package snapshot
