package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/parashape/core"
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/core/font"
	"github.com/npillmayer/parashape/engine/glyphing"
	"github.com/npillmayer/parashape/engine/glyphing/harfbuzz"
	"github.com/npillmayer/parashape/engine/glyphing/monospace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
)

// --- Test Suite Preparation ------------------------------------------------

type SessionTestEnviron struct {
	suite.Suite
	gofont *font.TypeCase
}

// listen for 'go test' command --> run test methods
func TestSessionFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parashape.layout")
	defer teardown()
	suite.Run(t, new(SessionTestEnviron))
}

// run once, before test suite methods
func (env *SessionTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("parashape.glyphs").SetTraceLevel(tracing.LevelError)
	f, err := font.ParseOpenTypeFont(goregular.TTF)
	env.Require().NoError(err)
	env.gofont, err = f.PrepareCase(12.0)
	env.Require().NoError(err)
}

// run once, after test suite methods
func (env *SessionTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

func (env *SessionTestEnviron) newSession(backend glyphing.Backend, text *TextBuffer) *Session {
	s, err := NewSession(backend)
	env.Require().NoError(err)
	if text != nil {
		env.Require().NoError(s.SetText(text))
	}
	return s
}

// --- Recording engine ------------------------------------------------------

// recorder is an engine which records the calls it receives. Operations
// contained in refuse fail.
type recorder struct {
	calls     []string
	refuse    map[string]bool
	text      []rune
	noGlyphs  bool
	destroyed int
}

func newRecorder(refuse ...string) *recorder {
	rec := &recorder{refuse: make(map[string]bool)}
	for _, op := range refuse {
		rec.refuse[op] = true
	}
	return rec
}

func (rec *recorder) backend() glyphing.Backend {
	return glyphing.BackendFunc(func() glyphing.Engine { return rec })
}

func (rec *recorder) record(op string, format string, v ...interface{}) bool {
	rec.calls = append(rec.calls, op+" "+fmt.Sprintf(format, v...))
	return !rec.refuse[op]
}

func (rec *recorder) SetText(text []rune) bool {
	rec.text = text
	return rec.record("text", "%d", len(text))
}

func (rec *recorder) SetParDirection(dir glyphing.Direction) bool {
	return rec.record("direction", "%s", dir)
}

func (rec *recorder) SetLanguage(tag string, start, end int) bool {
	return rec.record("language", "%s %d %d", tag, start, end)
}

func (rec *recorder) SetFont(tc *font.TypeCase, start, end int) bool {
	return rec.record("font", "%d %d", start, end)
}

func (rec *recorder) SetLoadFlags(flags glyphing.LoadFlags) bool {
	return rec.record("flags", "%s", flags)
}

func (rec *recorder) AddFeature(feature string) bool {
	return rec.record("feature", "%s", feature)
}

func (rec *recorder) Layout() bool {
	return rec.record("layout", "")
}

func (rec *recorder) Glyphs() []glyphing.Glyph {
	if rec.noGlyphs {
		return nil
	}
	glyphs := make([]glyphing.Glyph, len(rec.text))
	for i := range rec.text {
		glyphs[i] = glyphing.Glyph{GID: glyphing.GlyphIndex(i), XAdvance: 10, Cluster: i}
	}
	return glyphs
}

func (rec *recorder) IndexToPosition(index int) (int, dimen.DU, dimen.DU, bool) {
	return index, dimen.DU(10 * (index + 1)), 0, true
}

func (rec *recorder) PositionToIndex(x, y dimen.DU) (int, bool) {
	return int(x / 10), true
}

func (rec *recorder) ResolvedDirection() glyphing.Direction {
	return glyphing.LeftToRight
}

func (rec *recorder) DirectionAt(index int) glyphing.Direction {
	return glyphing.LeftToRight
}

func (rec *recorder) Destroy() {
	rec.destroyed++
}

// --- Tests -----------------------------------------------------------------

func (env *SessionTestEnviron) TestCreateFailed() {
	_, err := NewSession(glyphing.BackendFunc(func() glyphing.Engine { return nil }))
	env.True(errors.Is(err, ErrCreateFailed), "expected ErrCreateFailed, have %v", err)
	env.Equal(core.ECREATE, core.Code(err))
	_, err = NewSession(nil)
	env.True(errors.Is(err, ErrCreateFailed))
}

func (env *SessionTestEnviron) TestOrderOfOperations() {
	rec := newRecorder()
	s := env.newSession(rec.backend(), nil)
	defer s.Destroy()
	env.Equal(Created, s.Phase())
	err := s.SetLanguage("en", 0, 0)
	env.True(errors.Is(err, ErrFailed), "expected configuration before text to fail")
	env.Equal(core.EFAILED, core.Code(err))
	env.ErrorIs(s.SetFontAll(env.gofont), ErrFailed)
	env.ErrorIs(s.Layout(), ErrFailed)
	_, err = s.Glyphs()
	env.ErrorIs(err, ErrFailed)
	//
	env.Require().NoError(s.SetText(UTF8Text("Hello")))
	env.Equal(TextSet, s.Phase())
	env.ErrorIs(s.SetText(UTF8Text("World")), ErrFailed, "expected text to be set once only")
	_, err = s.IndexToPosition(0)
	env.ErrorIs(err, ErrFailed, "expected query before layout to fail")
	_, err = s.PositionToIndex(0, 0)
	env.ErrorIs(err, ErrFailed)
	_, err = s.ResolvedDirection()
	env.ErrorIs(err, ErrFailed)
	//
	env.NoError(s.SetParDirection(glyphing.LeftToRight))
	env.Equal(Configured, s.Phase())
	env.NoError(s.Layout())
	env.Equal(LaidOut, s.Phase())
	env.ErrorIs(s.Layout(), ErrFailed, "expected second layout to fail")
	env.ErrorIs(s.AddFeature("kern"), ErrFailed, "expected configuration after layout to fail")
	env.Equal([]string{"text 5", "direction LeftToRight", "layout "}, rec.calls)
}

func (env *SessionTestEnviron) TestNilText() {
	s := env.newSession(newRecorder().backend(), nil)
	defer s.Destroy()
	env.ErrorIs(s.SetText(nil), ErrFailed)
	env.Equal(Created, s.Phase())
}

func (env *SessionTestEnviron) TestEngineRefusesText() {
	s := env.newSession(newRecorder("text").backend(), nil)
	defer s.Destroy()
	env.ErrorIs(s.SetText(UTF8Text("abc")), ErrFailed)
	env.Equal(Created, s.Phase())
}

func (env *SessionTestEnviron) TestReplayInCallOrder() {
	rec := newRecorder()
	s := env.newSession(rec.backend(), UTF8Text("Hello"))
	defer s.Destroy()
	env.NoError(s.SetLanguage("en", 0, 5))
	env.NoError(s.SetFont(env.gofont, 0, 5))
	env.NoError(s.SetLanguage("de", 2, 4))
	env.Len(rec.calls, 1, "expected ranges to be deferred until layout")
	env.NoError(s.Layout())
	env.Equal([]string{"text 5", "language en 0 5", "language de 2 4", "font 0 5", "layout "}, rec.calls)
}

func (env *SessionTestEnviron) TestRangeValidation() {
	s := env.newSession(newRecorder().backend(), UTF8Text("Hello"))
	defer s.Destroy()
	env.ErrorIs(s.SetLanguage("en", 0, 6), ErrFailed)
	env.ErrorIs(s.SetLanguage("en", 3, 2), ErrFailed)
	env.ErrorIs(s.SetLanguage("en", -1, 2), ErrFailed)
	env.ErrorIs(s.SetLanguage("", 0, 2), ErrFailed)
	env.ErrorIs(s.SetFont(nil, 0, 2), ErrFailed)
	env.NoError(s.SetLanguage("en", 5, 5), "expected empty range at end to be accepted")
	env.Equal(Configured, s.Phase())
}

func (env *SessionTestEnviron) TestUTF8Replay() {
	rec := newRecorder()
	s := env.newSession(rec.backend(), UTF8Text("a¢£b")) // byte offsets 0, 1, 3, 5
	defer s.Destroy()
	env.NoError(s.SetLanguage("fr", 1, 5))
	env.NoError(s.SetLanguage("it", 2, 4)) // inside of ¢ and £
	env.NoError(s.SetFontAll(env.gofont))
	env.NoError(s.Layout())
	env.Equal([]string{"text 4", "language fr 1 3", "language it 1 2", "font 0 4", "layout "}, rec.calls)
	seq, err := s.Glyphs()
	env.Require().NoError(err)
	clusters := []int{}
	seq.Each(func(i int, g glyphing.Glyph) bool {
		clusters = append(clusters, g.Cluster)
		return true
	})
	env.Equal([]int{0, 1, 3, 5}, clusters)
	pos, err := s.IndexToPosition(4)
	env.NoError(err)
	env.Equal(3, pos.Index)
	index, err := s.PositionToIndex(35, 0)
	env.NoError(err)
	env.Equal(5, index)
}

func (env *SessionTestEnviron) TestEngineRefusesConfiguration() {
	rec := newRecorder("direction", "flags", "feature")
	s := env.newSession(rec.backend(), UTF32Text([]rune("abc")))
	defer s.Destroy()
	env.ErrorIs(s.SetParDirection(glyphing.RightToLeft), ErrFailed)
	env.Equal(Configured, s.Phase(), "expected refused configuration to advance phase")
	env.ErrorIs(s.SetLoadFlags(glyphing.NoHinting), ErrFailed)
	env.ErrorIs(s.AddFeature("kern"), ErrFailed)
	env.NoError(s.Layout(), "expected session to recover from refused configuration")
}

func (env *SessionTestEnviron) TestReplayRefused() {
	rec := newRecorder("font")
	s := env.newSession(rec.backend(), UTF8Text("abc"))
	defer s.Destroy()
	env.NoError(s.SetFontAll(env.gofont))
	env.ErrorIs(s.Layout(), ErrFailed)
	env.Equal(Aborted, s.Phase())
	env.NotContains(rec.calls, "layout ")
}

func (env *SessionTestEnviron) TestLayoutFails() {
	s := env.newSession(newRecorder("layout").backend(), UTF8Text("abc"))
	defer s.Destroy()
	env.ErrorIs(s.Layout(), ErrFailed)
	env.Equal(Aborted, s.Phase())
	_, err := s.Glyphs()
	env.ErrorIs(err, ErrFailed, "expected no queries after failed layout")
	env.ErrorIs(s.Layout(), ErrFailed)
}

func (env *SessionTestEnviron) TestGetGlyphsFailed() {
	rec := newRecorder()
	rec.noGlyphs = true
	s := env.newSession(rec.backend(), UTF8Text("abc"))
	defer s.Destroy()
	env.NoError(s.Layout())
	_, err := s.Glyphs()
	env.ErrorIs(err, ErrGetGlyphsFailed)
	env.Equal(core.EGLYPHS, core.Code(err))
}

func (env *SessionTestEnviron) TestIndexOutOfRange() {
	s := env.newSession(newRecorder().backend(), UTF8Text("abc"))
	defer s.Destroy()
	env.NoError(s.Layout())
	_, err := s.IndexToPosition(3)
	env.ErrorIs(err, ErrFailed)
	_, err = s.IndexToPosition(-1)
	env.ErrorIs(err, ErrFailed)
	_, err = s.DirectionAt(3)
	env.ErrorIs(err, ErrFailed)
}

func (env *SessionTestEnviron) TestDestroyInAnyPhase() {
	for _, steps := range []int{0, 1, 2, 3} {
		rec := newRecorder()
		s := env.newSession(rec.backend(), nil)
		if steps > 0 {
			s.SetText(UTF8Text("abc"))
		}
		if steps > 1 {
			s.SetParDirection(glyphing.LeftToRight)
		}
		if steps > 2 {
			s.Layout()
		}
		s.Destroy()
		s.Destroy()
		env.Equal(1, rec.destroyed, "expected engine to be destroyed exactly once")
		env.Equal(Destroyed, s.Phase())
		env.ErrorIs(s.SetParDirection(glyphing.LeftToRight), ErrFailed)
		_, err := s.Glyphs()
		env.ErrorIs(err, ErrFailed)
	}
}

func (env *SessionTestEnviron) TestEmptyText() {
	s := env.newSession(monospace.Backend(100, nil), UTF8Text(""))
	defer s.Destroy()
	env.NoError(s.SetLanguage("en", 0, 0))
	env.NoError(s.Layout())
	seq, err := s.Glyphs()
	env.NoError(err)
	env.Equal(0, seq.Len())
	_, err = s.IndexToPosition(0)
	env.ErrorIs(err, ErrFailed)
	index, err := s.PositionToIndex(10, 0)
	env.NoError(err)
	env.Equal(0, index)
}

func (env *SessionTestEnviron) TestMonospaceMapping() {
	s := env.newSession(monospace.Backend(100, nil), UTF8Text("a¢£b"))
	defer s.Destroy()
	env.NoError(s.Layout())
	seq, err := s.Glyphs()
	env.Require().NoError(err)
	env.Equal(4, seq.Len())
	g, ok := seq.At(2)
	env.True(ok)
	env.Equal(3, g.Cluster)
	_, ok = seq.At(4)
	env.False(ok)
	x, _ := seq.Advance()
	env.Equal(dimen.DU(400), x)
	//
	pos, err := s.IndexToPosition(4) // second byte of £
	env.NoError(err)
	env.Equal(Position{Index: 3, X: 300}, pos)
	for _, d := range []struct {
		x     dimen.DU
		index int
	}{{-10, 0}, {40, 0}, {60, 1}, {240, 3}, {250, 5}, {420, 6}} {
		index, err := s.PositionToIndex(d.x, 0)
		env.NoError(err)
		env.Equal(d.index, index, "x = %s", d.x)
	}
}

func (env *SessionTestEnviron) TestRightToLeft() {
	s := env.newSession(monospace.Backend(100, nil), UTF32Text([]rune("אבג")))
	defer s.Destroy()
	env.NoError(s.Layout())
	dir, err := s.ResolvedDirection()
	env.NoError(err)
	env.Equal(glyphing.RightToLeft, dir)
	pos, err := s.IndexToPosition(0)
	env.NoError(err)
	env.Equal(dimen.DU(200), pos.X)
	index, _ := s.PositionToIndex(-1, 0)
	env.Equal(3, index)
	index, _ = s.PositionToIndex(1000, 0)
	env.Equal(0, index)
	at, err := s.DirectionAt(1)
	env.NoError(err)
	env.Equal(glyphing.RightToLeft, at)
}

func (env *SessionTestEnviron) TestMissingFont() {
	s := env.newSession(harfbuzz.Backend(), UTF8Text("Hello"))
	defer s.Destroy()
	err := s.Layout()
	env.ErrorIs(err, ErrFailed, "expected layout without a font to fail")
	env.Equal(Aborted, s.Phase())
}

func (env *SessionTestEnviron) TestHarfBuzzLayout() {
	s := env.newSession(harfbuzz.Backend(), UTF8Text("Hello"))
	defer s.Destroy()
	env.NoError(s.SetFontAll(env.gofont))
	env.NoError(s.SetLanguage("en", 0, 5))
	env.NoError(s.AddFeature("-liga"))
	env.NoError(s.Layout())
	seq, err := s.Glyphs()
	env.Require().NoError(err)
	env.Equal(5, seq.Len())
	covered := map[int]bool{}
	seq.Each(func(i int, g glyphing.Glyph) bool {
		covered[g.Cluster] = true
		return true
	})
	for i := 0; i < 5; i++ {
		env.True(covered[i], "expected cluster %d to be present", i)
	}
	var last dimen.DU
	for i := 0; i < 5; i++ {
		pos, err := s.IndexToPosition(i)
		env.NoError(err)
		env.Greater(int32(pos.X), int32(last), "expected cursor to advance at index %d", i)
		last = pos.X
		back, err := s.PositionToIndex(pos.X, pos.Y)
		env.NoError(err)
		env.True(back == i || back == i+1, "round trip of %d yields %d", i, back)
	}
	w, h, d := seq.BoundingBox()
	env.Equal(last, w)
	env.True(h > 0 && d > 0, "expected positive height and depth")
}
