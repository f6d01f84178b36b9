/*
Package layout provides layout sessions for paragraphs of bidirectional text.

Overview

A Session wraps a shaping engine (see package glyphing) and adds what the
engine leaves to its clients: a text buffer with UTF-8 or UTF-32 indexing, an
attribute table for per-range languages and fonts, and a fixed order of
operations. The life cycle of a session is

    NewSession → SetText → [configuration] → Layout → [queries] → Destroy

Configuration calls (direction, languages, fonts, load flags, features) are
valid between setting the text and layout only. Queries (glyphs, cursor
positions, directions) are valid after a successful layout only. Operations
called out of order fail with ErrFailed and never return stale data.

Clients preferring compile-time checks of the call order use Prepare, which
returns a Draft. A Draft offers configuration only, and its Layout method
returns a Result, which offers queries only.

    draft, err := layout.Prepare(harfbuzz.Backend(), layout.UTF8Text("Hello"))
    …
    draft.SetFontAll(typecase)
    result, err := draft.Layout()
    …
    defer result.Destroy()
    glyphs, _ := result.Glyphs()

Indices

Indices are given in the unit of the session's text buffer: bytes for UTF-8
text, code-points for UTF-32 text. Glyph clusters and cursor positions are
reported in the same unit. Positions are in layout units (see package dimen).

Sessions are not safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parashape.layout'.
func tracer() tracing.Trace {
	return tracing.Select("parashape.layout")
}
