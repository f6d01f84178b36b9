package glyphing

import (
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/rivo/uniseg"
)

// ShapedRun is a run together with its glyphs, in visual order.
type ShapedRun struct {
	Run
	Glyphs []Glyph
}

// Paragraph is the result of laying out a text: shaped runs in visual order.
// It answers coordinate queries in scalar positions.
type Paragraph struct {
	Text      []rune
	Direction Direction // resolved paragraph direction
	Runs      []ShapedRun
	graphemes []bool // graphemes[i] is true if a grapheme cluster starts at i
}

// NewParagraph creates a paragraph from shaped runs in visual order.
func NewParagraph(text []rune, dir Direction, runs []ShapedRun) *Paragraph {
	para := &Paragraph{
		Text:      text,
		Direction: dir,
		Runs:      runs,
		graphemes: make([]bool, len(text)+1),
	}
	pos := 0
	gr := uniseg.NewGraphemes(string(text))
	for gr.Next() {
		para.graphemes[pos] = true
		pos += len(gr.Runes())
	}
	para.graphemes[len(text)] = true
	return para
}

// Glyphs returns a fresh copy of all glyphs, in visual order.
func (para *Paragraph) Glyphs() []Glyph {
	n := 0
	for _, r := range para.Runs {
		n += len(r.Glyphs)
	}
	glyphs := make([]Glyph, 0, n)
	for _, r := range para.Runs {
		glyphs = append(glyphs, r.Glyphs...)
	}
	return glyphs
}

// isGraphemeBoundary is true if position i is the start of a grapheme cluster or
// the end of text.
func (para *Paragraph) isGraphemeBoundary(i int) bool {
	if i <= 0 || i >= len(para.Text) {
		return true
	}
	return para.graphemes[i]
}

// nextCluster returns the cluster value logically following the cluster of glyph
// i of run r. Glyphs of right-to-left runs are in reverse logical order.
func nextCluster(r *ShapedRun, i int) int {
	curr := r.Glyphs[i].Cluster
	if r.Direction == RightToLeft {
		for j := i - 1; j >= 0; j-- {
			if c := r.Glyphs[j].Cluster; c != curr {
				return c
			}
		}
	} else {
		for j := i + 1; j < len(r.Glyphs); j++ {
			if c := r.Glyphs[j].Cluster; c != curr {
				return c
			}
		}
	}
	return r.End
}

// IndexToPosition returns the cursor position after the character at index.
// For right-to-left characters the cursor is at the visual left edge of the
// character's cluster, otherwise at its right (or bottom) edge.
//
// index is first moved forward to the last character of its grapheme cluster,
// then back to the start of its shaping cluster, which is returned as the first
// value. Indices outside of the text are refused.
func (para *Paragraph) IndexToPosition(index int) (int, dimen.DU, dimen.DU, bool) {
	if index < 0 || index >= len(para.Text) {
		return index, 0, 0, false
	}
	for index+1 < len(para.Text) && !para.isGraphemeBoundary(index+1) {
		index++
	}
	var x, y dimen.DU
	for ri := range para.Runs {
		r := &para.Runs[ri]
		for i, g := range r.Glyphs {
			x += g.XAdvance
			y += g.YAdvance
			curr, next := g.Cluster, nextCluster(r, i)
			if next < curr { // last glyph of a cluster with decreasing successors
				next = r.End
			}
			if index < curr || index >= next {
				continue
			}
			if r.Direction == RightToLeft {
				x -= g.XAdvance
				y -= g.YAdvance
			} else { // include the remaining glyphs of this cluster
				for j := i + 1; j < len(r.Glyphs) && r.Glyphs[j].Cluster == curr; j++ {
					x += r.Glyphs[j].XAdvance
					y += r.Glyphs[j].YAdvance
				}
			}
			tracer().Debugf("position is (%s,%s) at index %d", x, y, curr)
			return curr, x, y, true
		}
	}
	return index, x, y, true
}

// PositionToIndex returns the caret position for a point in layout space.
// Points before the start of the text's extent map to the visually leftmost caret
// position, points past it to the rightmost one. For horizontal text only x is
// considered, for vertical text only y (growing downwards as -y).
//
// Within a glyph, the half nearer to the logical start of its cluster yields the
// cluster start, the other half the start of the logically following cluster.
// A point exactly on the boundary between runs of different direction yields the
// caret at the right edge of the glyph on its left (the bottom edge of the glyph
// above it, for vertical text).
// Results are moved forward to the next grapheme boundary within their run.
func (para *Paragraph) PositionToIndex(x, y dimen.DU) (int, bool) {
	vertical := para.Direction.IsVertical()
	pos := x
	if vertical {
		pos = -y
	}
	rtl := para.Direction == RightToLeft
	if pos < 0 {
		if rtl {
			return len(para.Text), true
		}
		return 0, true
	}
	var current dimen.DU
	var prev *ShapedRun // run of the glyph visually preceding pos
	var prevGlyph int
	for ri := range para.Runs {
		r := &para.Runs[ri]
		for i, g := range r.Glyphs {
			delta := g.XAdvance
			if vertical {
				delta = -g.YAdvance
			}
			if pos >= current+delta {
				current += delta
				prev, prevGlyph = r, i
				continue
			}
			if pos == current && prev != nil && prev.Direction != r.Direction {
				// on a direction boundary the caret belongs to the preceding glyph
				index := prev.Glyphs[prevGlyph].Cluster
				if prev.Direction != RightToLeft {
					index = nextCluster(prev, prevGlyph)
				}
				for index < prev.End && !para.isGraphemeBoundary(index) {
					index++
				}
				tracer().Debugf("index is %d at direction boundary %s", index, pos)
				return index, true
			}
			var before bool
			if r.Direction == RightToLeft {
				before = pos > current+delta/2
			} else {
				before = pos < current+delta/2
			}
			index := g.Cluster
			if !before {
				index = nextCluster(r, i)
			}
			for index < r.End && !para.isGraphemeBoundary(index) {
				index++
			}
			tracer().Debugf("index is %d at position %s", index, pos)
			return index, true
		}
	}
	if rtl {
		return 0, true
	}
	return len(para.Text), true
}

// DirectionAt returns the resolved direction of the character at index, or
// Default if index is outside of the text.
func (para *Paragraph) DirectionAt(index int) Direction {
	for _, r := range para.Runs {
		if index >= r.Start && index < r.End {
			return r.Direction
		}
	}
	return Default
}
