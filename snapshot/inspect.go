package snapshot

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/s2"

	"github.com/packdb/packdb/heap"
)

// Info summarizes a snapshot file for diagnostics.
type Info struct {
	Version   byte   `json:"version"`
	Codec     string `json:"codec"`
	FileSize  int64  `json:"fileSize"`
	PageCount uint32 `json:"pageCount"`
	PageBytes []int  `json:"pageBytes"`
	HeapBytes int64  `json:"heapBytes"`
}

// Inspect reads the snapshot at path and reports its container header and
// page layout.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("snapshot: stat: %w", err)
	}

	ver, codec, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	var h *heap.Heap
	switch codec {
	case CodecRaw:
		h, err = heap.ReadHeap(f)
	case CodecS2:
		h, err = heap.ReadHeap(s2.NewReader(f))
	}
	if err != nil {
		return nil, err
	}

	info := &Info{
		Version:   ver,
		Codec:     codec.String(),
		FileSize:  stat.Size(),
		PageCount: h.PageCount(),
	}
	for i := uint32(0); i < h.PageCount(); i++ {
		n := h.PageLen(i)
		info.PageBytes = append(info.PageBytes, n)
		info.HeapBytes += int64(n)
	}
	return info, nil
}
