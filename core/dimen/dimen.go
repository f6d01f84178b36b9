// Package dimen implements dimensions and units for glyph layout.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"fmt"

	"golang.org/x/image/math/fixed"
)

// DU is a layout unit.
//
// Shapers report positions in 1/64 of a pixel at the size of the font in use,
// i.e. in the 26.6 fixed point format known from FreeType and HarfBuzz. At 72 dpi
// a pixel equals a printer's big point. If scaling is switched off
// for a layout, DU values are font design units instead.
type DU int32

// Some pre-defined dimensions
const (
	Zero DU = 0
	PX   DU = 64 // one pixel in 26.6
	BP   DU = PX // big point (PDF) = 1/72 inch
)

// Stringer implementation.
func (d DU) String() string {
	return fmt.Sprintf("%ddu", int32(d))
}

// Points returns a dimension in big (PDF) points.
func (d DU) Points() float64 {
	return float64(d) / float64(BP)
}

// Fixed returns d as a fixed point value.
func (d DU) Fixed() fixed.Int26_6 {
	return fixed.Int26_6(d)
}

// FromFixed converts a fixed point value to layout units.
func FromFixed(f fixed.Int26_6) DU {
	return DU(f)
}

// Round rounds d to whole pixels.
func (d DU) Round() DU {
	return DU(fixed.I(fixed.Int26_6(d).Round()))
}

// Point is a point in layout space.
type Point struct {
	X, Y DU
}

// Origin is origin
var Origin = Point{0, 0}

// Shift a point along a vector.
func (p *Point) Shift(vector Point) *Point {
	p.X += vector.X
	p.Y += vector.Y
	return p
}

// Rect is a rectangle in layout space.
type Rect struct {
	TopL, BotR Point
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner.
func (r Rect) Width() DU {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner.
func (r Rect) Height() DU {
	return r.BotR.Y - r.TopL.Y
}

// Contains reports whether p lies inside r. The bottom-right edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.TopL.X && p.X < r.BotR.X && p.Y >= r.TopL.Y && p.Y < r.BotR.Y
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b DU) DU {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b DU) DU {
	if a > b {
		return a
	}
	return b
}

// Abs returns the absolute value of d.
func Abs(d DU) DU {
	if d < 0 {
		return -d
	}
	return d
}
