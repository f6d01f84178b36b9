/*
Package glyphing turns paragraphs of text into positioned glyphs.

The package defines the contract of a shaping engine (interface Engine) as
consumed by layout sessions, together with a pipeline implementing it.
The pipeline resolves bidi runs, splits them at font and language
changes, hands each run to a Shaper and keeps the shaped runs in visual
order for coordinate queries. Shapers live in sub-packages:

  harfbuzz     OpenType shaping with github.com/benoitkugler/textlayout
  gotext       OpenType shaping with github.com/go-text/typesetting
  monospace    grapheme-based shaping for monospace output, no font needed

Engines speak in scalar (rune) positions exclusively. Translation from and to
byte positions of UTF-8 text is the business of package layout.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parashape.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("parashape.glyphs")
}
