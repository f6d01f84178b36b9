package glyphing

import (
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/core/font"
)

// A Backend creates shaping engines.
type Backend interface {
	// Create returns a new engine with all its internal state set to defaults,
	// or nil if the engine cannot allocate its state.
	Create() Engine
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func() Engine

// Create calls f.
func (f BackendFunc) Create() Engine {
	return f()
}

// Engine is a handle for a shaping engine, which performs bidi reordering,
// shaping and glyph positioning for one paragraph of text.
//
// All operations report success with a boolean only. Engines do not
// enforce an order of operations beyond refusing operations which cannot be
// meaningful (e.g., querying positions before layout).
// All positions are scalar (rune) positions.
type Engine interface {
	SetText(text []rune) bool
	SetParDirection(dir Direction) bool
	SetLanguage(tag string, start, end int) bool
	SetFont(tc *font.TypeCase, start, end int) bool
	SetLoadFlags(flags LoadFlags) bool
	AddFeature(feature string) bool
	Layout() bool
	// Glyphs returns the glyphs of the paragraph in visual order, or nil.
	Glyphs() []Glyph
	// IndexToPosition returns the cursor position after the character at index,
	// together with the index of the cluster start the cursor has been snapped to.
	IndexToPosition(index int) (int, dimen.DU, dimen.DU, bool)
	// PositionToIndex returns the caret position for the glyph at (x, y).
	PositionToIndex(x, y dimen.DU) (int, bool)
	ResolvedDirection() Direction
	DirectionAt(index int) Direction
	// Destroy releases resources held by the engine.
	Destroy()
}

// A Shaper creates a sequence of glyphs for a run of a paragraph's text.
//
// text is the complete paragraph; shapers are expected to produce glyphs for
// text[run.Start:run.End] only, with clusters relative to the paragraph, and
// in visual order (i.e., right-to-left runs are reversed).
type Shaper interface {
	Shape(text []rune, run Run, params Params) ([]Glyph, error)
	// AcceptFeature is true for feature strings the shaper is able to apply.
	AcceptFeature(feature string) bool
}
