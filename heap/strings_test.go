package heap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrings_AllocReadRoundTrip(t *testing.T) {
	cx := NewContext(New())

	for _, s := range []string{"", "a", "src/index.js", strings.Repeat("x", 1000)} {
		addr := cx.AllocString(s)
		assert.Equal(t, s, cx.ReadString(addr))
	}
}

func TestStrings_BytesAreAView(t *testing.T) {
	cx := NewContext(New())

	addr := cx.AllocString("cat")
	b := cx.StringBytes(addr)
	require.Equal(t, []byte("cat"), b)

	// StringBytes aliases the page; mutations show up on the next read.
	b[0] = 'b'
	assert.Equal(t, "bat", cx.ReadString(addr))
}

func TestStrings_InternDedupes(t *testing.T) {
	cx := NewContext(New())

	a1 := cx.Intern("node_modules/react")
	a2 := cx.Intern("node_modules/react")
	a3 := cx.Intern("node_modules/redux")

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, a3)
	assert.Equal(t, "node_modules/react", cx.ReadString(a1))
	assert.Equal(t, "node_modules/redux", cx.ReadString(a3))
}

func TestStrings_InternSurvivesReload(t *testing.T) {
	cx := NewContext(New())

	addr := cx.Intern("entry.ts")

	var buf strings.Builder
	_, err := cx.Heap().WriteTo(&buf)
	require.NoError(t, err)

	reloaded, err := ReadHeap(strings.NewReader(buf.String()))
	require.NoError(t, err)

	cx2 := NewContext(reloaded)
	assert.Equal(t, "entry.ts", cx2.ReadString(addr), "address must resolve identically after reload")
}
