package glyphing

import (
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/core/font"
	"golang.org/x/text/language"
)

// NewBackend returns a backend creating engines which itemize text and shape
// its runs with shapers produced by newShaper. If newShaper returns nil, engine
// creation fails.
func NewBackend(newShaper func() Shaper) Backend {
	return BackendFunc(func() Engine {
		shaper := newShaper()
		if shaper == nil {
			tracer().Errorf("backend cannot create a shaper")
			return nil
		}
		return &pipeline{
			shaper: shaper,
		}
	})
}

// pipeline is the standard engine. It collects attributes per character,
// itemizes the text at layout time and shapes every run separately.
type pipeline struct {
	shaper    Shaper
	text      []rune
	textSet   bool
	dir       Direction
	langs     []language.Tag
	fonts     []*font.TypeCase
	params    Params
	para      *Paragraph
	laidOut   bool
	destroyed bool
}

var _ Engine = &pipeline{}

func (p *pipeline) configurable() bool {
	return !p.destroyed && !p.laidOut
}

func (p *pipeline) SetText(text []rune) bool {
	if !p.configurable() || p.textSet {
		return false
	}
	p.text = make([]rune, len(text))
	copy(p.text, text)
	p.langs = make([]language.Tag, len(text))
	p.fonts = make([]*font.TypeCase, len(text))
	p.textSet = true
	return true
}

func (p *pipeline) SetParDirection(dir Direction) bool {
	if !p.configurable() || !dir.Valid() {
		return false
	}
	p.dir = dir
	return true
}

// checkRange validates a range of text positions. An empty text accepts
// any range, as there is nothing to apply it to.
func (p *pipeline) checkRange(start, end int) bool {
	if !p.configurable() || !p.textSet {
		return false
	}
	if len(p.text) == 0 {
		return true
	}
	return start >= 0 && start <= end && end <= len(p.text)
}

func (p *pipeline) SetLanguage(tag string, start, end int) bool {
	if !p.checkRange(start, end) {
		return false
	}
	lang, err := language.Parse(tag)
	if err != nil {
		tracer().Infof("engine refuses language tag %q: %v", tag, err)
		return false
	}
	for i := start; i < end && i < len(p.langs); i++ {
		p.langs[i] = lang
	}
	return true
}

func (p *pipeline) SetFont(tc *font.TypeCase, start, end int) bool {
	if tc == nil || !p.checkRange(start, end) {
		return false
	}
	for i := start; i < end && i < len(p.fonts); i++ {
		p.fonts[i] = tc
	}
	return true
}

func (p *pipeline) SetLoadFlags(flags LoadFlags) bool {
	if !p.configurable() || !flags.Valid() {
		return false
	}
	p.params.Flags = flags
	return true
}

func (p *pipeline) AddFeature(feature string) bool {
	if !p.configurable() || !p.shaper.AcceptFeature(feature) {
		return false
	}
	p.params.Features = append(p.params.Features, feature)
	return true
}

func (p *pipeline) Layout() bool {
	if !p.configurable() || !p.textSet {
		return false
	}
	p.laidOut = true
	dir, runs, err := Itemize(p.text, p.dir, p.fonts, p.langs)
	if err != nil {
		tracer().Errorf("cannot resolve bidi runs: %v", err)
		return false
	}
	shaped := make([]ShapedRun, len(runs))
	for i, r := range runs {
		glyphs, err := p.shaper.Shape(p.text, r, p.params)
		if err != nil {
			tracer().Errorf("cannot shape run [%d,%d): %v", r.Start, r.End, err)
			return false
		}
		shaped[i] = ShapedRun{Run: r, Glyphs: glyphs}
	}
	p.para = NewParagraph(p.text, dir, shaped)
	tracer().Debugf("laid out %d characters in %d runs, direction %s", len(p.text), len(runs), dir)
	return true
}

func (p *pipeline) Glyphs() []Glyph {
	if p.destroyed || p.para == nil {
		return nil
	}
	return p.para.Glyphs()
}

func (p *pipeline) IndexToPosition(index int) (int, dimen.DU, dimen.DU, bool) {
	if p.destroyed || p.para == nil {
		return index, 0, 0, false
	}
	return p.para.IndexToPosition(index)
}

func (p *pipeline) PositionToIndex(x, y dimen.DU) (int, bool) {
	if p.destroyed || p.para == nil {
		return 0, false
	}
	return p.para.PositionToIndex(x, y)
}

func (p *pipeline) ResolvedDirection() Direction {
	if p.para == nil {
		return ResolveParDirection(p.text, p.dir)
	}
	return p.para.Direction
}

func (p *pipeline) DirectionAt(index int) Direction {
	if p.para == nil {
		return Default
	}
	return p.para.DirectionAt(index)
}

func (p *pipeline) Destroy() {
	p.destroyed = true
	p.para = nil
	p.text, p.langs, p.fonts = nil, nil, nil
}
