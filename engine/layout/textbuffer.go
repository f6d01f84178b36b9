package layout

import (
	"fmt"
	"unicode/utf8"

	"github.com/emirpasic/gods/maps/treemap"
)

// Encoding selects the index unit of a text buffer.
type Encoding int

// Text encodings. UTF8 buffers are indexed by byte, UTF32 buffers by code-point.
const (
	UTF8 Encoding = iota
	UTF32
)

func (enc Encoding) String() string {
	switch enc {
	case UTF8:
		return "UTF-8"
	case UTF32:
		return "UTF-32"
	}
	return fmt.Sprintf("Encoding(%d)", int(enc))
}

// TextBuffer holds the text of a layout session, together with its decoded
// code-points.
//
// Invalid input is replaced by U+FFFD: for UTF-8 input every invalid byte
// decodes to one replacement character, for UTF-32 input every surrogate or
// value beyond U+10FFFF is replaced. Indices always refer to the caller's input.
//
// UTF-8 buffers map in both directions: a byte index inside a multi-byte
// sequence is resolved by a floor lookup in an ordered map of sequence starts,
// while the start of a code-point is a direct slice access.
type TextBuffer struct {
	enc     Encoding
	raw     []byte       // UTF-8 input, nil for UTF-32
	text    []rune       // decoded code-points
	offsets []int        // code-point index → UTF-8 byte offset, plus len(raw)
	starts  *treemap.Map // UTF-8 byte offset → code-point index, floor lookups
}

// UTF8Text creates a byte-indexed text buffer from a string.
func UTF8Text(s string) *TextBuffer {
	return UTF8Bytes([]byte(s))
}

// UTF8Bytes creates a byte-indexed text buffer from UTF-8 encoded text.
// b is copied.
func UTF8Bytes(b []byte) *TextBuffer {
	tb := &TextBuffer{
		enc:     UTF8,
		raw:     make([]byte, len(b)),
		text:    make([]rune, 0, len(b)),
		offsets: make([]int, 0, len(b)+1),
		starts:  treemap.NewWithIntComparator(),
	}
	copy(tb.raw, b)
	for pos := 0; pos < len(tb.raw); {
		r, sz := utf8.DecodeRune(tb.raw[pos:])
		tb.starts.Put(pos, len(tb.text))
		tb.offsets = append(tb.offsets, pos)
		tb.text = append(tb.text, r)
		pos += sz
	}
	tb.offsets = append(tb.offsets, len(tb.raw))
	return tb
}

// UTF32Text creates a code-point-indexed text buffer. text is copied.
func UTF32Text(text []rune) *TextBuffer {
	tb := &TextBuffer{
		enc:  UTF32,
		text: make([]rune, len(text)),
	}
	for i, r := range text {
		if !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		tb.text[i] = r
	}
	return tb
}

// Encoding returns the index unit of a text buffer.
func (tb *TextBuffer) Encoding() Encoding {
	return tb.enc
}

// Len returns the length of the text in native units: bytes for UTF-8 text,
// code-points for UTF-32 text.
func (tb *TextBuffer) Len() int {
	if tb.enc == UTF8 {
		return len(tb.raw)
	}
	return len(tb.text)
}

// RuneCount returns the number of decoded code-points.
func (tb *TextBuffer) RuneCount() int {
	return len(tb.text)
}

// Runes returns a copy of the decoded code-points.
func (tb *TextBuffer) Runes() []rune {
	r := make([]rune, len(tb.text))
	copy(r, tb.text)
	return r
}

func (tb *TextBuffer) String() string {
	return string(tb.text)
}

// ToScalar translates a native index into a code-point index. An index in the
// middle of a UTF-8 sequence maps to the code-point containing it, Len() maps
// to RuneCount(). index must be in [0…Len()].
func (tb *TextBuffer) ToScalar(index int) int {
	if tb.enc == UTF32 || index <= 0 {
		return index
	}
	if index >= len(tb.raw) {
		return len(tb.text)
	}
	_, scalar := tb.starts.Floor(index)
	return scalar.(int)
}

// FromScalar translates a code-point index into a native index, i.e. the
// position of the first byte of a UTF-8 sequence. RuneCount() maps to Len().
func (tb *TextBuffer) FromScalar(scalar int) int {
	if tb.enc == UTF32 {
		return scalar
	}
	if scalar < 0 {
		return 0
	}
	if scalar >= len(tb.offsets) {
		return len(tb.raw)
	}
	return tb.offsets[scalar]
}

// inRange is true for a valid range [start…end) of native indices.
func (tb *TextBuffer) inRange(start, end int) bool {
	return start >= 0 && start <= end && end <= tb.Len()
}
