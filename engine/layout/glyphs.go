package layout

import (
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/core/font"
	"github.com/npillmayer/parashape/engine/glyphing"
)

// GlyphSequence is the immutable sequence of glyphs of a laid out text, in
// visual order. Clusters are native indices of the session's text buffer.
type GlyphSequence struct {
	glyphs []glyphing.Glyph
}

// Len returns the number of glyphs.
func (seq *GlyphSequence) Len() int {
	if seq == nil {
		return 0
	}
	return len(seq.glyphs)
}

// At returns glyph i, or false if i is out of range.
func (seq *GlyphSequence) At(i int) (glyphing.Glyph, bool) {
	if i < 0 || i >= seq.Len() {
		return glyphing.Glyph{}, false
	}
	return seq.glyphs[i], true
}

// Glyphs returns a copy of the glyphs.
func (seq *GlyphSequence) Glyphs() []glyphing.Glyph {
	g := make([]glyphing.Glyph, seq.Len())
	if seq != nil {
		copy(g, seq.glyphs)
	}
	return g
}

// Each calls fn for every glyph in visual order, until fn returns false.
func (seq *GlyphSequence) Each(fn func(i int, g glyphing.Glyph) bool) {
	for i := 0; i < seq.Len(); i++ {
		if !fn(i, seq.glyphs[i]) {
			return
		}
	}
}

// Advance returns the sum of all glyph advances.
func (seq *GlyphSequence) Advance() (x, y dimen.DU) {
	for i := 0; i < seq.Len(); i++ {
		x += seq.glyphs[i].XAdvance
		y += seq.glyphs[i].YAdvance
	}
	return
}

// BoundingBox returns the width of a glyph sequence, together with the maximum
// ascent and descent of the type cases in use. Glyphs without a type case do
// not contribute to height and depth.
func (seq *GlyphSequence) BoundingBox() (w, h, d dimen.DU) {
	x, y := seq.Advance()
	w = dimen.Max(dimen.Abs(x), dimen.Abs(y))
	var last *font.TypeCase
	for i := 0; i < seq.Len(); i++ {
		tc := seq.glyphs[i].Font
		if tc == nil || tc == last {
			continue
		}
		last = tc
		asc, desc := tc.Metrics()
		h, d = dimen.Max(h, asc), dimen.Max(d, desc)
	}
	return
}
