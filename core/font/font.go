/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size.
The name is reminiscend on the wooden boxes of typesetters in the aera of metal type.
An example is "Helvetica regular 11pt".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

Type cases are the font references handed to layout sessions. Sessions
never copy them: glyphs carry a pointer back to the type case they have
been taken from.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"fmt"
	"os"
	"sync"

	"github.com/npillmayer/parashape/core"
	"github.com/npillmayer/parashape/core/dimen"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'parashape.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("parashape.fonts")
}

// Size limits for type cases, in points.
const (
	MinSize = 5.0
	MaxSize = 500.0
)

// ScalableFont is a font file loaded into memory.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// TypeCase is a scalable font at a given point size.
type TypeCase struct {
	scalableFontParent *ScalableFont
	face               xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size               float64
}

// LoadOpenTypeFont reads and parses a font file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses the binary data of an OpenType font.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse OpenType font")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// PrepareCase creates a type case from a font, to be used at a given point size.
// Sizes outside of [MinSize…MaxSize] are rejected.
func (sf *ScalableFont) PrepareCase(fontsize float64) (*TypeCase, error) {
	if sf == nil || sf.SFNT == nil {
		return nil, core.Error(core.EINVALID, "cannot prepare type case from unparsed font")
	}
	if fontsize < MinSize || fontsize > MaxSize {
		return nil, core.Error(core.EINVALID, "font size must be %gpt ≤ size ≤ %gpt, is %g",
			MinSize, MaxSize, fontsize)
	}
	options := &opentype.FaceOptions{
		Size:    fontsize,
		DPI:     72,
		Hinting: xfont.HintingNone,
	}
	face, err := opentype.NewFace(sf.SFNT, options)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot create face for %s", sf.Fontname)
	}
	tracer().Debugf("prepared type case %s @ %.1fpt", sf.Fontname, fontsize)
	return &TypeCase{
		scalableFontParent: sf,
		face:               face,
		size:               fontsize,
	}, nil
}

// ScalableFontParent returns the font a type case is derived from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// PtSize returns the point size of a type case.
func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// UnitsPerEm returns the number of design units per em of the underlying font.
func (tc *TypeCase) UnitsPerEm() int32 {
	if tc.scalableFontParent == nil || tc.scalableFontParent.SFNT == nil {
		return 1000
	}
	return int32(tc.scalableFontParent.SFNT.UnitsPerEm())
}

// Scale converts a value in font design units to layout units at the point size
// of the type case.
func (tc *TypeCase) Scale(designUnits int32) dimen.DU {
	upem := int64(tc.UnitsPerEm())
	ppem64 := int64(tc.size * 64)
	v := int64(designUnits) * ppem64
	if v < 0 {
		return dimen.DU((v - upem/2) / upem)
	}
	return dimen.DU((v + upem/2) / upem)
}

// Metrics returns ascent and descent of a type case, in layout units.
// Descent is positive for fonts extending below the baseline.
func (tc *TypeCase) Metrics() (ascent, descent dimen.DU) {
	if tc.face == nil {
		return 0, 0
	}
	m := tc.face.Metrics()
	return dimen.FromFixed(m.Ascent), dimen.FromFixed(m.Descent)
}

func (tc *TypeCase) String() string {
	if tc == nil {
		return "<no font>"
	}
	name := "?"
	if tc.scalableFontParent != nil {
		name = tc.scalableFontParent.Fontname
	}
	return fmt.Sprintf("%s@%.1fpt", name, tc.size)
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns Go Sans, a font which is always present.
// Layout sessions never substitute it on their own: clients which want a
// fallback have to set it explicitly.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}
