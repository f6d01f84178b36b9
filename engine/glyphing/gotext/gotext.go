/*
Package gotext provides a shaping backend using go-text/typesetting.

Features are applied to complete runs; ranges given with a feature string
are ignored. Runs without a type case make the layout fail.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gotext

import (
	"bytes"
	"errors"
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	gthb "github.com/go-text/typesetting/harfbuzz"
	gtlang "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/core/font"
	"github.com/npillmayer/parashape/engine/glyphing"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

// tracer traces with key 'parashape.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("parashape.glyphs")
}

// ErrNoFont is returned for runs of text without a type case.
var ErrNoFont = errors.New("no font set for text run")

// Backend returns a backend for engines shaping with go-text.
func Backend() glyphing.Backend {
	return glyphing.NewBackend(func() glyphing.Shaper {
		return NewShaper()
	})
}

// Shaper shapes runs of text with the HarfBuzz port of go-text. Parsed fonts
// are cached per scalable font. A Shaper is not safe for concurrent use.
type Shaper struct {
	hb    shaping.HarfbuzzShaper
	fonts map[*font.ScalableFont]*gtfont.Font
}

var _ glyphing.Shaper = &Shaper{}

// NewShaper creates a go-text shaper with an empty font cache.
func NewShaper() *Shaper {
	return &Shaper{fonts: make(map[*font.ScalableFont]*gtfont.Font)}
}

// AcceptFeature is true for feature strings in HarfBuzz syntax.
func (sh *Shaper) AcceptFeature(feature string) bool {
	_, err := gthb.ParseFeature(feature)
	return err == nil
}

// Shape shapes a run of text. The complete paragraph is handed to the shaper as
// context, and clusters are positions within text.
func (sh *Shaper) Shape(text []rune, run glyphing.Run, params glyphing.Params) ([]glyphing.Glyph, error) {
	if run.Font == nil {
		return nil, ErrNoFont
	}
	f, err := sh.goTextFont(run.Font)
	if err != nil {
		return nil, err
	}
	features, err := fontFeatures(params.Features)
	if err != nil {
		return nil, err
	}
	input := shaping.Input{
		Text:         text,
		RunStart:     run.Start,
		RunEnd:       run.End,
		Direction:    mapDirection(run.Direction),
		Face:         gtfont.NewFace(f),
		FontFeatures: features,
		Size:         fixed.Int26_6(run.Font.PtSize() * 64),
		Script:       detectScript(text[run.Start:run.End]),
	}
	noScale := params.Flags.Has(glyphing.NoScale)
	if noScale { // positions in 26.6 design units
		input.Size = fixed.I(int(run.Font.UnitsPerEm()))
	}
	if run.Language != language.Und {
		input.Language = gtlang.NewLanguage(run.Language.String())
	}
	output := sh.hb.Shape(input)
	//
	conv := func(v fixed.Int26_6) dimen.DU {
		switch {
		case noScale:
			return dimen.DU(v.Round())
		case params.Flags.Has(glyphing.NoHinting):
			return dimen.FromFixed(v)
		}
		return dimen.FromFixed(v).Round()
	}
	glyphs := make([]glyphing.Glyph, len(output.Glyphs))
	for i, g := range output.Glyphs {
		glyphs[i] = glyphing.Glyph{
			GID:     glyphing.GlyphIndex(g.GlyphID),
			XOffset: conv(g.XOffset),
			YOffset: conv(g.YOffset),
			Cluster: g.TextIndex(),
			Font:    run.Font,
		}
		if run.Direction.IsVertical() { // y grows upwards
			glyphs[i].YAdvance = -dimen.Abs(conv(g.Advance))
		} else {
			glyphs[i].XAdvance = conv(g.Advance)
		}
	}
	tracer().Debugf("go-text shaped [%d,%d) into %d glyphs", run.Start, run.End, len(glyphs))
	return glyphs, nil
}

// goTextFont returns the parsed go-text font for a type case.
func (sh *Shaper) goTextFont(tc *font.TypeCase) (*gtfont.Font, error) {
	sf := tc.ScalableFontParent()
	if sf == nil {
		return nil, ErrNoFont
	}
	if f, ok := sh.fonts[sf]; ok {
		return f, nil
	}
	face, err := gtfont.ParseTTF(bytes.NewReader(sf.Binary))
	if err != nil {
		return nil, err
	}
	sh.fonts[sf] = face.Font
	return face.Font, nil
}

func fontFeatures(features []string) ([]shaping.FontFeature, error) {
	if len(features) == 0 {
		return nil, nil
	}
	ff := make([]shaping.FontFeature, 0, len(features))
	for _, s := range features {
		f, err := gthb.ParseFeature(s)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", s, err)
		}
		ff = append(ff, shaping.FontFeature{Tag: f.Tag, Value: f.Value})
	}
	return ff, nil
}

func mapDirection(d glyphing.Direction) di.Direction {
	switch d {
	case glyphing.RightToLeft:
		return di.DirectionRTL
	case glyphing.TopToBottom:
		return di.DirectionTTB
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first letter of a run.
func detectScript(runes []rune) gtlang.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsDigit(r) {
			continue
		}
		return gtlang.LookupScript(r)
	}
	return gtlang.Latin
}
