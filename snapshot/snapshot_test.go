package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packdb/packdb/heap"
)

// buildHeap populates a heap with recognizable contents and returns it with
// a captured address and its expected string.
func buildHeap(t *testing.T) (*heap.Heap, heap.Addr, string) {
	t.Helper()
	h := heap.New()
	cx := heap.NewContext(h)

	const payload = "persisted across the boundary"
	addr := cx.AllocString(payload)
	for i := 0; i < 200; i++ {
		cx.Intern(filepath.Join("src", "module", string(rune('a'+i%26))))
	}
	return h, addr, payload
}

func TestSnapshot_RoundTripBothCodecs(t *testing.T) {
	for _, codec := range []Codec{CodecRaw, CodecS2} {
		t.Run(codec.String(), func(t *testing.T) {
			h, addr, want := buildHeap(t)

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, h, &Options{Codec: codec}))

			got, err := Read(&buf)
			require.NoError(t, err)
			require.Equal(t, h.PageCount(), got.PageCount())

			cx := heap.NewContext(got)
			assert.Equal(t, want, cx.ReadString(addr))
		})
	}
}

func TestSnapshot_S2IsSmallerThanRaw(t *testing.T) {
	h, _, _ := buildHeap(t)

	var raw, s2buf bytes.Buffer
	require.NoError(t, Write(&raw, h, &Options{Codec: CodecRaw}))
	require.NoError(t, Write(&s2buf, h, &Options{Codec: CodecS2}))

	// Mostly-zero pages compress drastically.
	assert.Less(t, s2buf.Len(), raw.Len()/2)
}

func TestSnapshot_SaveLoadFile(t *testing.T) {
	h, addr, want := buildHeap(t)
	path := filepath.Join(t.TempDir(), "state.pkdb")

	require.NoError(t, Save(path, h, nil))

	got, err := Load(path)
	require.NoError(t, err)
	cx := heap.NewContext(got)
	assert.Equal(t, want, cx.ReadString(addr))

	// No temp litter next to the snapshot.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSnapshot_OpenMappedZeroCopy(t *testing.T) {
	h, addr, want := buildHeap(t)
	path := filepath.Join(t.TempDir(), "state.pkdb")
	require.NoError(t, Save(path, h, &Options{Codec: CodecRaw}))

	m, err := OpenMapped(path)
	require.NoError(t, err)
	defer m.Close()

	got := m.Heap()
	require.Equal(t, h.PageCount(), got.PageCount())

	cx := heap.NewContext(got)
	assert.Equal(t, want, cx.ReadString(addr))

	// Mapped heaps are read-only.
	assert.Panics(t, func() { got.AllocPage(heap.PageSize, false) })
}

func TestSnapshot_OpenMappedRejectsCompressed(t *testing.T) {
	h, _, _ := buildHeap(t)
	path := filepath.Join(t.TempDir(), "state.pkdb")
	require.NoError(t, Save(path, h, &Options{Codec: CodecS2}))

	_, err := OpenMapped(path)
	assert.ErrorIs(t, err, ErrMappedCompressed)
}

func TestSnapshot_RejectsForeignFiles(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte("REGF01....")))
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("bad version", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte{'P', 'K', 'D', 'B', 9, 0}))
		assert.ErrorIs(t, err, ErrBadVersion)
	})

	t.Run("bad codec", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte{'P', 'K', 'D', 'B', 1, 7}))
		assert.ErrorIs(t, err, ErrBadCodec)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte{'P', 'K'}))
		assert.Error(t, err)
	})

	t.Run("truncated payload", func(t *testing.T) {
		h, _, _ := buildHeap(t)
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, h, &Options{Codec: CodecRaw}))
		_, err := Read(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
		assert.ErrorIs(t, err, heap.ErrTruncatedStream)
	})
}

func TestSnapshot_Inspect(t *testing.T) {
	h, _, _ := buildHeap(t)
	path := filepath.Join(t.TempDir(), "state.pkdb")
	require.NoError(t, Save(path, h, &Options{Codec: CodecS2}))

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, byte(1), info.Version)
	assert.Equal(t, "s2", info.Codec)
	assert.Equal(t, h.PageCount(), info.PageCount)
	assert.Len(t, info.PageBytes, int(h.PageCount()))
	assert.Equal(t, int64(heap.PageSize), int64(info.PageBytes[0]))
	assert.Positive(t, info.FileSize)
}
