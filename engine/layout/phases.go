package layout

import (
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/core/font"
	"github.com/npillmayer/parashape/engine/glyphing"
)

// Draft is a session with its text set, accepting configuration.
// Drafts offer no queries; these are available from the Result of Layout.
type Draft struct {
	s *Session
}

// Prepare creates a session with an engine from backend and sets its text.
func Prepare(backend glyphing.Backend, text *TextBuffer) (*Draft, error) {
	s, err := NewSession(backend)
	if err != nil {
		return nil, err
	}
	if err = s.SetText(text); err != nil {
		s.Destroy()
		return nil, err
	}
	return &Draft{s: s}, nil
}

// Text returns the text buffer of the draft.
func (d *Draft) Text() *TextBuffer { return d.s.Text() }

// SetParDirection sets the paragraph direction.
func (d *Draft) SetParDirection(dir glyphing.Direction) error { return d.s.SetParDirection(dir) }

// SetLanguage sets a language tag for the text range [start…end).
func (d *Draft) SetLanguage(tag string, start, end int) error {
	return d.s.SetLanguage(tag, start, end)
}

// SetFont sets a type case for the text range [start…end).
func (d *Draft) SetFont(tc *font.TypeCase, start, end int) error {
	return d.s.SetFont(tc, start, end)
}

// SetFontAll sets a type case for all of the text.
func (d *Draft) SetFontAll(tc *font.TypeCase) error { return d.s.SetFontAll(tc) }

// SetLoadFlags sets flags for loading glyphs.
func (d *Draft) SetLoadFlags(flags glyphing.LoadFlags) error { return d.s.SetLoadFlags(flags) }

// AddFeature adds an OpenType feature for all of the text.
func (d *Draft) AddFeature(feature string) error { return d.s.AddFeature(feature) }

// Layout lays out the text and returns the result. A draft may be laid out once.
// After a failed layout the draft is unusable and should be destroyed.
func (d *Draft) Layout() (*Result, error) {
	if err := d.s.Layout(); err != nil {
		return nil, err
	}
	return &Result{s: d.s}, nil
}

// Destroy releases the draft's session.
func (d *Draft) Destroy() { d.s.Destroy() }

// Result is a laid out session, accepting queries only.
type Result struct {
	s *Session
}

// Text returns the text buffer of the result.
func (r *Result) Text() *TextBuffer { return r.s.Text() }

// Glyphs returns the glyphs of the laid out text, in visual order.
func (r *Result) Glyphs() (*GlyphSequence, error) { return r.s.Glyphs() }

// IndexToPosition returns the cursor position after the character at index.
func (r *Result) IndexToPosition(index int) (Position, error) { return r.s.IndexToPosition(index) }

// PositionToIndex returns the caret index for a point in layout space.
func (r *Result) PositionToIndex(x, y dimen.DU) (int, error) { return r.s.PositionToIndex(x, y) }

// ResolvedDirection returns the resolved paragraph direction.
func (r *Result) ResolvedDirection() (glyphing.Direction, error) { return r.s.ResolvedDirection() }

// DirectionAt returns the resolved direction of the character at index.
func (r *Result) DirectionAt(index int) (glyphing.Direction, error) { return r.s.DirectionAt(index) }

// Destroy releases the result's session.
func (r *Result) Destroy() { r.s.Destroy() }
