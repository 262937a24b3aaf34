package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/s2"

	"github.com/packdb/packdb/heap"
)

// Codec identifies how the page stream payload is encoded.
type Codec byte

const (
	// CodecRaw stores the page stream as-is. Raw snapshots support
	// zero-copy mapped loading.
	CodecRaw Codec = 0

	// CodecS2 frames the page stream with s2 compression. Heap pages hold a
	// lot of zero padding and repeated structure, so this typically shrinks
	// snapshots substantially at near-memcpy decode speed.
	CodecS2 Codec = 1
)

func (c Codec) String() string {
	switch c {
	case CodecRaw:
		return "raw"
	case CodecS2:
		return "s2"
	default:
		return fmt.Sprintf("codec(%d)", byte(c))
	}
}

const (
	headerSize = 6
	version    = 1
)

var magic = []byte{'P', 'K', 'D', 'B'}

// Options configures snapshot writing.
type Options struct {
	// Codec selects the payload encoding.
	Codec Codec
}

// DefaultOptions compresses with s2.
var DefaultOptions = Options{Codec: CodecS2}

// Write serializes h to w inside the snapshot container.
// opts may be nil for DefaultOptions.
func Write(w io.Writer, h *heap.Heap, opts *Options) error {
	if opts == nil {
		opts = &DefaultOptions
	}

	hdr := [headerSize]byte{magic[0], magic[1], magic[2], magic[3], version, byte(opts.Codec)}
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}

	switch opts.Codec {
	case CodecRaw:
		if _, err := h.WriteTo(w); err != nil {
			return err
		}
		return nil
	case CodecS2:
		enc := s2.NewWriter(w)
		if _, err := h.WriteTo(enc); err != nil {
			enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("snapshot: flush s2 stream: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrBadCodec, byte(opts.Codec))
	}
}

// Read deserializes a snapshot written by Write into a fresh heap.
func Read(r io.Reader) (*heap.Heap, error) {
	_, codec, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	switch codec {
	case CodecRaw:
		return heap.ReadHeap(r)
	case CodecS2:
		return heap.ReadHeap(s2.NewReader(r))
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadCodec, byte(codec))
	}
}

// Save writes h to a snapshot file at path. The file is written to a
// temporary sibling first and renamed into place so a crash mid-write never
// leaves a partial snapshot under the final name.
func Save(path string, h *heap.Heap, opts *Options) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snap-*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, h, opts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("snapshot: rename into place: %w", err)
	}
	return nil
}

// Load reads the snapshot file at path into a fresh heap.
func Load(path string) (*heap.Heap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// readHeader consumes and validates the container header, returning the
// format version and payload codec.
func readHeader(r io.Reader) (byte, Codec, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, 0, fmt.Errorf("snapshot: read header: %w", err)
	}
	return parseHeader(hdr[:])
}

func parseHeader(hdr []byte) (byte, Codec, error) {
	for i := range magic {
		if hdr[i] != magic[i] {
			return 0, 0, ErrBadMagic
		}
	}
	if hdr[4] != version {
		return 0, 0, fmt.Errorf("%w: %d", ErrBadVersion, hdr[4])
	}
	codec := Codec(hdr[5])
	if codec != CodecRaw && codec != CodecS2 {
		return 0, 0, fmt.Errorf("%w: %d", ErrBadCodec, hdr[5])
	}
	return hdr[4], codec, nil
}
