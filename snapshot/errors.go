package snapshot

import "errors"

var (
	// ErrBadMagic indicates the file does not start with the snapshot magic.
	ErrBadMagic = errors.New("snapshot: bad magic")

	// ErrBadVersion indicates an unsupported container format version.
	ErrBadVersion = errors.New("snapshot: unsupported version")

	// ErrBadCodec indicates an unknown payload codec tag.
	ErrBadCodec = errors.New("snapshot: unknown codec")

	// ErrMappedCompressed indicates an attempt to memory-map a compressed
	// snapshot; only raw payloads can be served zero-copy.
	ErrMappedCompressed = errors.New("snapshot: cannot map a compressed snapshot")
)
