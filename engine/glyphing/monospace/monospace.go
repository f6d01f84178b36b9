package monospace

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/engine/glyphing"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
)

// DefaultEm is the em-dimension used if none is given, 10pt.
const DefaultEm = 10 * dimen.BP

type msshape struct {
	em               dimen.DU
	graphemeSplitter *segment.Segmenter
	context          *uax11.Context
}

// Backend returns a backend for engines shaping monospace text with an
// em-dimension of em and a width context.
func Backend(em dimen.DU, context *uax11.Context) glyphing.Backend {
	return glyphing.NewBackend(func() glyphing.Shaper {
		return Shaper(em, context)
	})
}

// Shaper creates a shaper for monospace typesetting.
// An em-dimension may be given which will then be used for shaping text.
// If is is zero, it will be set to DefaultEm. If context is nil, widths are
// determined in a Latin context.
func Shaper(em dimen.DU, context *uax11.Context) glyphing.Shaper {
	if em == 0 {
		em = DefaultEm
	}
	sh := &msshape{
		em:      em,
		context: context,
	}
	if context == nil {
		sh.context = uax11.LatinContext
	}
	grapheme.SetupGraphemeClasses()
	onGraphemes := grapheme.NewBreaker(1)
	sh.graphemeSplitter = segment.NewSegmenter(onGraphemes)
	return sh
}

// Shape creates a glyph for every grapheme of a run. The glyph index is the
// first code-point of the grapheme. Load flags do not apply.
func (ms *msshape) Shape(text []rune, run glyphing.Run, p glyphing.Params) ([]glyphing.Glyph, error) {
	glyphs := make([]glyphing.Glyph, 0, run.Len())
	ms.graphemeSplitter.Init(strings.NewReader(string(text[run.Start:run.End])))
	pos := run.Start
	for ms.graphemeSplitter.Next() {
		grphm := ms.graphemeSplitter.Bytes()
		codepoint, _ := utf8.DecodeRune(grphm)
		g := glyphing.Glyph{
			GID:     glyphing.GlyphIndex(codepoint),
			Cluster: pos,
			Font:    run.Font,
		}
		if run.Direction.IsVertical() {
			g.YAdvance = -ms.em
		} else {
			g.XAdvance = dimen.DU(uax11.Width(grphm, ms.context)) * ms.em
		}
		glyphs = append(glyphs, g)
		pos += utf8.RuneCount(grphm)
	}
	if run.Direction == glyphing.RightToLeft {
		for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
			glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
		}
	}
	tracer().Debugf("monospace shaped [%d,%d) into %d glyphs", run.Start, run.End, len(glyphs))
	return glyphs, nil
}

// AcceptFeature accepts any feature. Monospace shaping does not apply features.
func (ms *msshape) AcceptFeature(feature string) bool {
	return feature != ""
}
