package layout

import (
	"fmt"

	"github.com/npillmayer/parashape/core/font"
)

// AttrKind is the kind of attribute a range carries.
type AttrKind int

// Kinds of range attributes.
const (
	Language AttrKind = iota
	Font
)

func (k AttrKind) String() string {
	switch k {
	case Language:
		return "language"
	case Font:
		return "font"
	}
	return fmt.Sprintf("AttrKind(%d)", int(k))
}

// Range is an attribute applied to the text positions [Start…End), in native
// units of a text buffer.
type Range struct {
	Kind       AttrKind
	Start, End int
	Lang       string         // for ranges of kind Language
	Font       *font.TypeCase // for ranges of kind Font; not owned
}

func (r Range) String() string {
	if r.Kind == Font {
		return fmt.Sprintf("[%d,%d) font %s", r.Start, r.End, r.Font)
	}
	return fmt.Sprintf("[%d,%d) language %q", r.Start, r.End, r.Lang)
}

// RangeTable records attribute ranges in call order. Ranges may overlap; they
// are neither merged nor checked for coverage. Applying them in call order
// lets later ranges win.
type RangeTable struct {
	ranges []Range
}

// Add appends a range.
func (rt *RangeTable) Add(r Range) {
	rt.ranges = append(rt.ranges, r)
}

// Len returns the number of ranges recorded.
func (rt *RangeTable) Len() int {
	return len(rt.ranges)
}

// Ranges returns a copy of all ranges, in call order.
func (rt *RangeTable) Ranges() []Range {
	r := make([]Range, len(rt.ranges))
	copy(r, rt.ranges)
	return r
}

// Each calls fn for every range of a kind, in call order, until fn returns
// false. Each returns false if iteration has been stopped.
func (rt *RangeTable) Each(kind AttrKind, fn func(Range) bool) bool {
	for _, r := range rt.ranges {
		if r.Kind != kind {
			continue
		}
		if !fn(r) {
			return false
		}
	}
	return true
}
