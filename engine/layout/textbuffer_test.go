package layout

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestUTF8Buffer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parashape.layout")
	defer teardown()
	//
	tb := UTF8Text("a¢€b") // 1 + 2 + 3 + 1 bytes
	assert.Equal(t, UTF8, tb.Encoding())
	assert.Equal(t, 7, tb.Len())
	assert.Equal(t, 4, tb.RuneCount())
	for native, scalar := range []int{0, 1, 1, 2, 2, 2, 3, 4} {
		assert.Equal(t, scalar, tb.ToScalar(native), "native index %d", native)
	}
	for scalar, native := range []int{0, 1, 3, 6, 7} {
		assert.Equal(t, native, tb.FromScalar(scalar), "scalar index %d", scalar)
	}
}

func TestUTF8Invalid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parashape.layout")
	defer teardown()
	//
	tb := UTF8Bytes([]byte{'a', 0xff, 0xfe, 'b'})
	assert.Equal(t, 4, tb.Len())
	assert.Equal(t, []rune{'a', '\uFFFD', '\uFFFD', 'b'}, tb.Runes())
	assert.Equal(t, 2, tb.ToScalar(2))
}

func TestUTF32Buffer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parashape.layout")
	defer teardown()
	//
	tb := UTF32Text([]rune{'a', 0xD800, 0x110000, 'b'})
	assert.Equal(t, UTF32, tb.Encoding())
	assert.Equal(t, 4, tb.Len())
	assert.Equal(t, "a\uFFFD\uFFFDb", tb.String())
	assert.Equal(t, 3, tb.ToScalar(3))
	assert.Equal(t, 3, tb.FromScalar(3))
}

func TestBufferCopiesInput(t *testing.T) {
	input := []byte("abc")
	tb := UTF8Bytes(input)
	input[0] = 'x'
	assert.Equal(t, "abc", tb.String())
	runes := tb.Runes()
	runes[1] = 'y'
	assert.Equal(t, "abc", tb.String())
}

func TestRangeTable(t *testing.T) {
	var rt RangeTable
	rt.Add(Range{Kind: Language, Start: 0, End: 5, Lang: "en"})
	rt.Add(Range{Kind: Font, Start: 0, End: 5})
	rt.Add(Range{Kind: Language, Start: 2, End: 4, Lang: "de"})
	assert.Equal(t, 3, rt.Len())
	var langs []string
	complete := rt.Each(Language, func(r Range) bool {
		langs = append(langs, r.Lang)
		return true
	})
	assert.True(t, complete)
	assert.Equal(t, []string{"en", "de"}, langs)
	n := 0
	complete = rt.Each(Language, func(r Range) bool {
		n++
		return false
	})
	assert.False(t, complete)
	assert.Equal(t, 1, n)
	assert.Equal(t, Font, rt.Ranges()[1].Kind)
}
