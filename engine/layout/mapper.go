package layout

import (
	"fmt"

	"github.com/npillmayer/parashape/core/dimen"
)

// Position is a cursor position in layout space, together with the index of
// the character it has been computed for.
type Position struct {
	Index int // index, possibly moved to the start of its cluster
	X, Y  dimen.DU
}

func (p Position) String() string {
	return fmt.Sprintf("@%d(%s,%s)", p.Index, p.X, p.Y)
}

// IndexToPosition returns the cursor position after the character at index.
//
// For left-to-right text the cursor is placed at the right edge of the
// character's cluster, for right-to-left text at its left edge. index is moved
// to the last character of its grapheme cluster first, and then to the start
// of its shaping cluster. The resulting index is returned with the position.
//
// Indices outside of [0…Len()) are an error.
func (s *Session) IndexToPosition(index int) (Position, error) {
	if err := s.query("map index to position"); err != nil {
		return Position{}, err
	}
	if index < 0 || index >= s.text.Len() {
		return Position{}, failed("index %d outside of text [0,%d)", index, s.text.Len())
	}
	cluster, x, y, ok := s.engine.IndexToPosition(s.text.ToScalar(index))
	if !ok {
		return Position{}, failed("shaping engine cannot map index %d", index)
	}
	return Position{Index: s.text.FromScalar(cluster), X: x, Y: y}, nil
}

// PositionToIndex returns the caret index for a point in layout space. For
// horizontal text only x is considered, for vertical text only y.
//
// Points left of the text map to index 0 for left-to-right paragraphs and to
// Len() for right-to-left paragraphs, points right of the text vice versa.
// Within a glyph, the half nearer to the logical start of its cluster selects
// the cluster start, the other half the start of the logically following
// cluster.
func (s *Session) PositionToIndex(x, y dimen.DU) (int, error) {
	if err := s.query("map position to index"); err != nil {
		return 0, err
	}
	index, ok := s.engine.PositionToIndex(x, y)
	if !ok {
		return 0, failed("shaping engine cannot map position (%s,%s)", x, y)
	}
	return s.text.FromScalar(index), nil
}
