package glyphing

import (
	"fmt"
	"strings"

	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/parashape/core/font"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Paragraph directions. Default lets the bidi algorithm detect the direction
// from the first character with a strong bidi type.
const (
	Default Direction = iota
	LeftToRight
	RightToLeft
	TopToBottom
)

func (d Direction) String() string {
	switch d {
	case Default:
		return "Default"
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	case TopToBottom:
		return "TopToBottom"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// IsVertical is true for vertical text directions.
func (d Direction) IsVertical() bool {
	return d == TopToBottom
}

// Valid is true for the known directions.
func (d Direction) Valid() bool {
	return d >= Default && d <= TopToBottom
}

// LoadFlags control how glyphs are loaded from fonts.
// It is a bit set; flags may be combined with '|'.
type LoadFlags uint16

// Load flags. The zero value loads scaled and hinted glyphs.
const (
	NoScale        LoadFlags = 1 << iota // report positions in font design units
	NoHinting                            // keep fractional advances
	VerticalLayout                       // load vertical metrics
	ForceAutohint                        // prefer auto-hinter (hint only, shapers may ignore)
	Monochrome                           // hint for monochrome output (hint only)
	NoBitmap                             // ignore embedded bitmaps (hint only)
)

// AllLoadFlags is the set of all known flags.
const AllLoadFlags = NoScale | NoHinting | VerticalLayout | ForceAutohint | Monochrome | NoBitmap

var loadFlagNames = []string{"NoScale", "NoHinting", "VerticalLayout", "ForceAutohint",
	"Monochrome", "NoBitmap"}

// Has is true if all flags of f are set in lf.
func (lf LoadFlags) Has(f LoadFlags) bool {
	return lf&f == f
}

// Valid is true if lf contains known flags only.
func (lf LoadFlags) Valid() bool {
	return lf&^AllLoadFlags == 0
}

func (lf LoadFlags) String() string {
	if lf == 0 {
		return "LoadDefault"
	}
	var names []string
	for i, n := range loadFlagNames {
		if lf&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	if rest := lf &^ AllLoadFlags; rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint16(rest)))
	}
	return strings.Join(names, "|")
}

// GlyphIndex is the index of a glyph within its font.
type GlyphIndex uint32

// A Glyph is a positioned glyph, as delivered by a shaper. Glyphs live in
// layout space (see package dimen).
//
// Cluster is the position of the first character producing this glyph in the
// text. Engines report it in scalar (rune) positions; layout sessions translate
// it to the index unit of their text buffer.
type Glyph struct {
	GID      GlyphIndex     // glyph index within font
	XAdvance dimen.DU       // advance after glyph has been set
	YAdvance dimen.DU       //
	XOffset  dimen.DU       // position of anchor dot for glyph
	YOffset  dimen.DU       //
	Cluster  int            // position of character(s) for this glyph in original text
	Font     *font.TypeCase // font the glyph is taken from; never copied
}

func (g Glyph) String() string {
	return fmt.Sprintf("(GID=%d, cluster=%d, advance=%s)", g.GID, g.Cluster, g.XAdvance)
}

// A Run is a maximal range of text with uniform resolved direction, bidi
// embedding level, font and language. Start and End are scalar positions.
type Run struct {
	Start, End int
	Direction  Direction // resolved: LeftToRight, RightToLeft or TopToBottom
	Level      int       // bidi embedding level
	Font       *font.TypeCase
	Language   language.Tag
}

// Len returns the number of characters of a run.
func (r Run) Len() int {
	return r.End - r.Start
}

// Params collects shaping parameters which are global for a paragraph.
type Params struct {
	Features []string  // OpenType features to apply, HarfBuzz syntax
	Flags    LoadFlags // glyph loading flags
}
