/*
Package harfbuzz provides a shaping backend using a Go port of HarfBuzz.

Every run of a paragraph is shaped with the type case set for it. Runs without
a type case cannot be shaped and make the layout fail; there is no fallback font.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"errors"
	"fmt"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/core/font"
	"github.com/npillmayer/parashape/engine/glyphing"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
)

// tracer traces with key 'parashape.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("parashape.glyphs")
}

// ErrNoFont is returned for runs of text without a type case.
var ErrNoFont = errors.New("no font set for text run")

// Backend returns a backend for engines shaping with HarfBuzz.
func Backend() glyphing.Backend {
	return glyphing.NewBackend(func() glyphing.Shaper {
		return NewShaper()
	})
}

// Shaper shapes runs of text with HarfBuzz. Parsed fonts are cached per
// scalable font. A Shaper is not safe for concurrent use.
type Shaper struct {
	fonts map[*font.ScalableFont]*hb.Font
}

var _ glyphing.Shaper = &Shaper{}

// NewShaper creates a HarfBuzz shaper with an empty font cache.
func NewShaper() *Shaper {
	return &Shaper{fonts: make(map[*font.ScalableFont]*hb.Font)}
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	}
	return hb.LeftToRight
}

// Script4HB returns the script of the first character of text with a script
// of its own, or 0 if every character is of common or inherited script.
func Script4HB(text []rune) hblang.Script {
	for _, r := range text {
		if script := hblang.LookupScript(r); script.IsRealScript() {
			return script
		}
	}
	return 0
}

// Features4HB parses feature strings in HarfBuzz syntax, e.g. "kern", "-liga",
// "aalt=2" or "+smcp[3:5]".
func Features4HB(features []string) ([]hb.Feature, error) {
	hbfeats := make([]hb.Feature, 0, len(features))
	for _, f := range features {
		feat, err := hb.ParseFeature(f)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f, err)
		}
		hbfeats = append(hbfeats, feat)
	}
	return hbfeats, nil
}

// --- Shape -----------------------------------------------------------------

// AcceptFeature is true for feature strings HarfBuzz is able to parse.
func (sh *Shaper) AcceptFeature(feature string) bool {
	_, err := hb.ParseFeature(feature)
	return err == nil
}

// Shape calls the HarfBuzz shaper for a run of text.
//
// The complete paragraph is handed to HarfBuzz as context, therefore clusters
// are positions within text. Glyph positions are scaled to the run's type
// case unless params.Flags contains glyphing.NoScale; unless they contain
// glyphing.NoHinting, they are rounded to whole pixels.
func (sh *Shaper) Shape(text []rune, run glyphing.Run, params glyphing.Params) ([]glyphing.Glyph, error) {
	if run.Font == nil {
		return nil, ErrNoFont
	}
	hbfont, err := sh.hbFont(run.Font)
	if err != nil {
		return nil, err
	}
	features, err := Features4HB(params.Features)
	if err != nil {
		return nil, err
	}
	buf := hb.NewBuffer()
	buf.Props.Direction = Direction4HB(run.Direction)
	buf.Props.Script = Script4HB(text[run.Start:run.End])
	buf.Props.Language = hblang.DefaultLanguage()
	if run.Language != language.Und {
		buf.Props.Language = Lang4HB(run.Language)
	}
	buf.AddRunes(text, run.Start, run.Len())
	buf.Shape(hbfont, features)
	//
	conv := converter(run.Font, params.Flags)
	glyphs := make([]glyphing.Glyph, len(buf.Info))
	for i, ginfo := range buf.Info {
		gpos := &buf.Pos[i]
		glyphs[i] = glyphing.Glyph{
			GID:      glyphing.GlyphIndex(ginfo.Glyph),
			XAdvance: conv(int32(gpos.XAdvance)),
			YAdvance: conv(int32(gpos.YAdvance)),
			XOffset:  conv(int32(gpos.XOffset)),
			YOffset:  conv(int32(gpos.YOffset)),
			Cluster:  ginfo.Cluster,
			Font:     run.Font,
		}
	}
	tracer().Debugf("HarfBuzz shaped [%d,%d) into %d glyphs", run.Start, run.End, len(glyphs))
	return glyphs, nil
}

// hbFont returns the HarfBuzz font for a type case. HarfBuzz fonts are scaled
// to font units.
func (sh *Shaper) hbFont(tc *font.TypeCase) (*hb.Font, error) {
	sf := tc.ScalableFontParent()
	if sf == nil {
		return nil, ErrNoFont
	}
	if f, ok := sh.fonts[sf]; ok {
		return f, nil
	}
	face, err := hbtt.Parse(bytes.NewReader(sf.Binary), true)
	if err != nil {
		return nil, err
	}
	f := hb.NewFont(face)
	sh.fonts[sf] = f
	return f, nil
}

// converter returns a function converting font units to layout units.
func converter(tc *font.TypeCase, flags glyphing.LoadFlags) func(int32) dimen.DU {
	if flags.Has(glyphing.NoScale) {
		return func(u int32) dimen.DU { return dimen.DU(u) }
	}
	if flags.Has(glyphing.NoHinting) {
		return tc.Scale
	}
	return func(u int32) dimen.DU { return tc.Scale(u).Round() }
}
