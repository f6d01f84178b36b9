/*
Package monospace implements a simple shaping backend for monospace output.

Every grapheme cluster of the input is set as one glyph, one or two ems wide
depending on its East Asian width. Fonts are not consulted, so layout does not
require a type case.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parashape.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("parashape.glyphs")
}
