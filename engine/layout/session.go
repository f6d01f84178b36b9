package layout

import (
	"fmt"

	"github.com/npillmayer/parashape/core/font"
	"github.com/npillmayer/parashape/engine/glyphing"
)

// Phase is the life cycle phase of a session. Phases only advance.
type Phase int

// Session phases. Aborted is entered after a failed layout, Destroyed after
// Destroy. Both are terminal.
const (
	Created Phase = iota
	TextSet
	Configured
	LaidOut
	Aborted
	Destroyed
)

func (p Phase) String() string {
	switch p {
	case Created:
		return "Created"
	case TextSet:
		return "TextSet"
	case Configured:
		return "Configured"
	case LaidOut:
		return "LaidOut"
	case Aborted:
		return "Aborted"
	case Destroyed:
		return "Destroyed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Session is a layout session for one paragraph of text. It owns its shaping
// engine, text buffer and attribute table.
type Session struct {
	phase  Phase
	engine glyphing.Engine
	text   *TextBuffer
	ranges RangeTable
	glyphs *GlyphSequence // cached after first retrieval
}

// NewSession creates a session with a new engine from backend.
// If no engine can be created, ErrCreateFailed is returned.
func NewSession(backend glyphing.Backend) (*Session, error) {
	if backend == nil {
		return nil, ErrCreateFailed
	}
	engine := backend.Create()
	if engine == nil {
		tracer().Errorf("backend did not create a shaping engine")
		return nil, ErrCreateFailed
	}
	tracer().Debugf("created layout session")
	return &Session{engine: engine}, nil
}

// Phase returns the current phase of a session.
func (s *Session) Phase() Phase {
	return s.phase
}

// Text returns the text buffer of a session, or nil if none has been set.
func (s *Session) Text() *TextBuffer {
	return s.text
}

func (s *Session) enter(p Phase) {
	if s.phase != p {
		tracer().Debugf("session phase %s → %s", s.phase, p)
		s.phase = p
	}
}

// SetText sets the text of a session. The text may be set exactly once.
func (s *Session) SetText(tb *TextBuffer) error {
	if s.phase != Created {
		return failed("cannot set text in phase %s", s.phase)
	}
	if tb == nil {
		return failed("text buffer is nil")
	}
	if !s.engine.SetText(tb.text) {
		return failed("shaping engine refused text")
	}
	s.text = tb
	s.enter(TextSet)
	return nil
}

// configure checks that a session accepts configuration and moves it to
// phase Configured.
func (s *Session) configure(op string) error {
	if s.phase != TextSet && s.phase != Configured {
		return failed("cannot %s in phase %s", op, s.phase)
	}
	s.enter(Configured)
	return nil
}

// SetParDirection sets the paragraph direction. The default is
// glyphing.Default, which detects the direction from the text.
func (s *Session) SetParDirection(dir glyphing.Direction) error {
	if err := s.configure("set direction"); err != nil {
		return err
	}
	if !s.engine.SetParDirection(dir) {
		return failed("shaping engine refused direction %s", dir)
	}
	return nil
}

// SetLanguage sets a BCP 47 language tag for the text range [start…end).
// Ranges are applied in call order at layout time; later calls win.
func (s *Session) SetLanguage(tag string, start, end int) error {
	if err := s.configure("set language"); err != nil {
		return err
	}
	if tag == "" {
		return failed("language tag is empty")
	}
	if !s.text.inRange(start, end) {
		return failed("language range [%d,%d) outside of text [0,%d)", start, end, s.text.Len())
	}
	s.ranges.Add(Range{Kind: Language, Start: start, End: end, Lang: tag})
	return nil
}

// SetFont sets a type case for the text range [start…end). The session
// does not take ownership of tc, which has to outlive the session.
// Ranges are applied in call order at layout time; later calls win.
//
// Clients are responsible for covering all of the text with fonts, as far
// as the session's backend requires them.
func (s *Session) SetFont(tc *font.TypeCase, start, end int) error {
	if err := s.configure("set font"); err != nil {
		return err
	}
	if tc == nil {
		return failed("font is nil")
	}
	if !s.text.inRange(start, end) {
		return failed("font range [%d,%d) outside of text [0,%d)", start, end, s.text.Len())
	}
	s.ranges.Add(Range{Kind: Font, Start: start, End: end, Font: tc})
	return nil
}

// SetFontAll sets a type case for all of the text.
func (s *Session) SetFontAll(tc *font.TypeCase) error {
	if s.text == nil {
		return failed("cannot set font in phase %s", s.phase)
	}
	return s.SetFont(tc, 0, s.text.Len())
}

// SetLoadFlags sets flags for loading glyphs.
func (s *Session) SetLoadFlags(flags glyphing.LoadFlags) error {
	if err := s.configure("set load flags"); err != nil {
		return err
	}
	if !s.engine.SetLoadFlags(flags) {
		return failed("shaping engine refused load flags %s", flags)
	}
	return nil
}

// AddFeature adds an OpenType feature in HarfBuzz syntax, e.g. "-liga" or
// "kern". Features apply to the whole text.
func (s *Session) AddFeature(feature string) error {
	if err := s.configure("add feature"); err != nil {
		return err
	}
	if !s.engine.AddFeature(feature) {
		return failed("shaping engine refused feature %q", feature)
	}
	return nil
}

// Layout applies the collected attribute ranges and lays out the text. A
// session may be laid out once. If layout fails, the session is aborted and
// accepts no further operation but Destroy.
func (s *Session) Layout() error {
	if s.phase != TextSet && s.phase != Configured {
		return failed("cannot lay out in phase %s", s.phase)
	}
	if err := s.replay(); err != nil {
		s.enter(Aborted)
		return err
	}
	if !s.engine.Layout() {
		s.enter(Aborted)
		return failed("shaping engine failed to lay out text")
	}
	s.enter(LaidOut)
	return nil
}

// replay hands the attribute ranges to the engine, in call order per kind.
func (s *Session) replay() (err error) {
	tb := s.text
	s.ranges.Each(Language, func(r Range) bool {
		tracer().Debugf("apply %s", r)
		if !s.engine.SetLanguage(r.Lang, tb.ToScalar(r.Start), tb.ToScalar(r.End)) {
			err = failed("shaping engine refused %s", r)
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	s.ranges.Each(Font, func(r Range) bool {
		tracer().Debugf("apply %s", r)
		if !s.engine.SetFont(r.Font, tb.ToScalar(r.Start), tb.ToScalar(r.End)) {
			err = failed("shaping engine refused %s", r)
		}
		return err == nil
	})
	return err
}

func (s *Session) query(op string) error {
	if s.phase != LaidOut {
		return failed("cannot %s in phase %s", op, s.phase)
	}
	return nil
}

// Glyphs returns the glyphs of the laid out text, in visual order. The
// sequence is owned by the session and valid until Destroy.
func (s *Session) Glyphs() (*GlyphSequence, error) {
	if err := s.query("get glyphs"); err != nil {
		return nil, err
	}
	if s.glyphs != nil {
		return s.glyphs, nil
	}
	glyphs := s.engine.Glyphs()
	if glyphs == nil && s.text.RuneCount() > 0 {
		return nil, ErrGetGlyphsFailed
	}
	seq := &GlyphSequence{glyphs: make([]glyphing.Glyph, len(glyphs))}
	for i, g := range glyphs {
		g.Cluster = s.text.FromScalar(g.Cluster)
		seq.glyphs[i] = g
	}
	tracer().Debugf("session holds %d glyphs", len(seq.glyphs))
	s.glyphs = seq
	return s.glyphs, nil
}

// ResolvedDirection returns the paragraph direction after layout. A paragraph
// direction of glyphing.Default is resolved from the text.
func (s *Session) ResolvedDirection() (glyphing.Direction, error) {
	if err := s.query("get direction"); err != nil {
		return glyphing.Default, err
	}
	return s.engine.ResolvedDirection(), nil
}

// DirectionAt returns the resolved direction of the character at index.
func (s *Session) DirectionAt(index int) (glyphing.Direction, error) {
	if err := s.query("get direction"); err != nil {
		return glyphing.Default, err
	}
	if index < 0 || index >= s.text.Len() {
		return glyphing.Default, failed("index %d outside of text [0,%d)", index, s.text.Len())
	}
	return s.engine.DirectionAt(s.text.ToScalar(index)), nil
}

// Destroy releases the shaping engine. Destroy may be called in any phase;
// calls after the first one do nothing.
func (s *Session) Destroy() {
	if s.phase == Destroyed {
		return
	}
	s.engine.Destroy()
	s.engine = nil
	s.glyphs = nil
	s.enter(Destroyed)
}
