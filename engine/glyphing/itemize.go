package glyphing

import (
	"sort"
	"unicode/utf8"

	"github.com/npillmayer/parashape/core/font"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Bidi marks are used to pin the paragraph level of a text segment before
// handing it to the bidi resolver, which otherwise detects the paragraph level
// itself (rule P2).
const (
	lrm = '\u200E'
	rlm = '\u200F'
)

// ResolveParDirection resolves a paragraph direction. Explicit directions are
// returned unchanged. Default resolves to the direction of the first character
// with a strong bidi type, or to LeftToRight if there is none (rules P2 and P3 of
// the Unicode Bidirectional Algorithm).
func ResolveParDirection(text []rune, dir Direction) Direction {
	switch dir {
	case LeftToRight, RightToLeft, TopToBottom:
		return dir
	}
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
	}
	return LeftToRight
}

// BidiRuns splits text into directional runs, in logical order.
// par must be a resolved direction.
//
// For vertical text the complete text is a single top-to-bottom run: there is
// no rotation of horizontal text within vertical text.
func BidiRuns(text []rune, par Direction) ([]Run, error) {
	if len(text) == 0 {
		return nil, nil
	}
	if par == TopToBottom {
		return []Run{{Start: 0, End: len(text), Direction: TopToBottom}}, nil
	}
	parLevel := 0
	if par == RightToLeft {
		parLevel = 1
	}
	var runs []Run
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && !isParagraphSeparator(text[i]) {
			continue
		}
		if i > start {
			segRuns, err := segmentRuns(text[start:i], start, parLevel)
			if err != nil {
				return nil, err
			}
			runs = append(runs, segRuns...)
		}
		if i < len(text) { // separators are at paragraph level
			runs = append(runs, Run{Start: i, End: i + 1, Direction: par, Level: parLevel})
		}
		start = i + 1
	}
	return mergeRuns(runs), nil
}

// segmentRuns resolves bidi runs for a text segment free of paragraph separators.
// offset is the position of the segment within the paragraph.
func segmentRuns(segment []rune, offset int, parLevel int) ([]Run, error) {
	marked := make([]rune, 0, len(segment)+1)
	if parLevel == 1 {
		marked = append(marked, rlm)
	} else {
		marked = append(marked, lrm)
	}
	marked = append(marked, segment...)
	var p bidi.Paragraph
	if _, err := p.SetString(string(marked)); err != nil {
		return nil, err
	}
	ordering, err := p.Order()
	if err != nil {
		return nil, err
	}
	runs := make([]Run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		pos, _ := r.Pos()
		n := utf8.RuneCountInString(r.String())
		start, end := pos-1, pos-1+n // discount the bidi mark
		if start < 0 {
			start = 0
		}
		if end > len(segment) {
			end = len(segment)
		}
		if end <= start {
			continue
		}
		dir := LeftToRight
		if r.Direction() == bidi.RightToLeft {
			dir = RightToLeft
		}
		if dir == LeftToRight && parLevel == 0 {
			levels := numberLevels(segment, start, end)
			for k := 0; k < len(levels); {
				j := k + 1
				for j < len(levels) && levels[j] == levels[k] {
					j++
				}
				runs = append(runs, Run{
					Start:     offset + start + k,
					End:       offset + start + j,
					Direction: dir,
					Level:     levels[k],
				})
				k = j
			}
			continue
		}
		level := parLevel
		if (dir == RightToLeft) != (parLevel == 1) {
			level++
		}
		runs = append(runs, Run{
			Start:     offset + start,
			End:       offset + end,
			Direction: dir,
			Level:     level,
		})
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Start < runs[j].Start })
	return runs, nil
}

// numberLevels returns the embedding levels of the characters of a
// left-to-right run within a left-to-right paragraph. Arabic numbers and
// European numbers not preceded by strong left-to-right text are at level 2,
// together with the separators and terminators joining them (rules W1 to W7
// and I1). All other characters are at level 0.
func numberLevels(segment []rune, start, end int) []int {
	classes := make([]bidi.Class, end-start)
	for i := range classes {
		props, _ := bidi.LookupRune(segment[start+i])
		classes[i] = props.Class()
	}
	strong := strongBefore(segment, start)
	isNumber := func(i int) bool {
		if i < 0 || i >= len(classes) {
			return false
		}
		return classes[i] == bidi.AN || classes[i] == bidi.EN && strong != bidi.L
	}
	levels := make([]int, len(classes))
	for i, c := range classes {
		switch c {
		case bidi.L:
			strong = bidi.L
		case bidi.EN, bidi.AN:
			if isNumber(i) {
				levels[i] = 2
			}
		case bidi.NSM:
			if i > 0 {
				levels[i] = levels[i-1]
			}
		case bidi.ES, bidi.CS:
			if i > 0 && levels[i-1] == 2 && isNumber(i+1) {
				levels[i] = 2
			}
		case bidi.ET:
			if i > 0 && levels[i-1] == 2 && (classes[i-1] == bidi.EN || classes[i-1] == bidi.ET) {
				levels[i] = 2
				break
			}
			j := i
			for j < len(classes) && classes[j] == bidi.ET {
				j++
			}
			if j < len(classes) && classes[j] == bidi.EN && strong != bidi.L {
				levels[i] = 2
			}
		}
	}
	return levels
}

// strongBefore returns the class of the last strong character before pos, or L
// at the start of the segment.
func strongBefore(segment []rune, pos int) bidi.Class {
	for i := pos - 1; i >= 0; i-- {
		props, _ := bidi.LookupRune(segment[i])
		if c := props.Class(); c == bidi.L || c == bidi.R || c == bidi.AL {
			return c
		}
	}
	return bidi.L
}

func isParagraphSeparator(r rune) bool {
	props, _ := bidi.LookupRune(r)
	return props.Class() == bidi.B
}

// mergeRuns joins adjacent runs of equal level.
func mergeRuns(runs []Run) []Run {
	if len(runs) < 2 {
		return runs
	}
	merged := make([]Run, 1, len(runs))
	merged[0] = runs[0]
	for _, r := range runs[1:] {
		last := &merged[len(merged)-1]
		if last.End == r.Start && last.Level == r.Level && last.Direction == r.Direction {
			last.End = r.End
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// SplitRuns splits runs further wherever font or language change. fonts and
// langs hold the attributes of every character of the paragraph.
func SplitRuns(runs []Run, fonts []*font.TypeCase, langs []language.Tag) []Run {
	var split []Run
	for _, r := range runs {
		start := r.Start
		for i := r.Start; i < r.End; i++ {
			if i > start && (fonts[i] != fonts[i-1] || langs[i] != langs[i-1]) {
				split = append(split, subRun(r, start, i, fonts, langs))
				start = i
			}
		}
		if start < r.End {
			split = append(split, subRun(r, start, r.End, fonts, langs))
		}
	}
	return split
}

func subRun(r Run, start, end int, fonts []*font.TypeCase, langs []language.Tag) Run {
	r.Start, r.End = start, end
	r.Font = fonts[start]
	r.Language = langs[start]
	return r
}

// Reorder re-arranges runs from logical order to visual order (rule L2 of
// the Unicode Bidirectional Algorithm): from the highest level down to the
// lowest odd level, every maximal sequence of runs at that level or higher is
// reversed. Reorder works in place and returns runs.
func Reorder(runs []Run) []Run {
	if len(runs) < 2 {
		return runs
	}
	maxLevel, minLevel := runs[0].Level, runs[0].Level
	for _, r := range runs[1:] {
		if r.Level > maxLevel {
			maxLevel = r.Level
		}
		if r.Level < minLevel {
			minLevel = r.Level
		}
	}
	for lvl := maxLevel; lvl >= minLevel|1; lvl-- {
		for i := 0; i < len(runs); {
			if runs[i].Level < lvl {
				i++
				continue
			}
			j := i
			for j < len(runs) && runs[j].Level >= lvl {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				runs[a], runs[b] = runs[b], runs[a]
			}
			i = j
		}
	}
	return runs
}

// Itemize resolves the paragraph direction and returns the runs of text in
// visual order.
func Itemize(text []rune, dir Direction, fonts []*font.TypeCase, langs []language.Tag) (Direction, []Run, error) {
	par := ResolveParDirection(text, dir)
	runs, err := BidiRuns(text, par)
	if err != nil {
		return par, nil, err
	}
	runs = SplitRuns(runs, fonts, langs)
	return par, Reorder(runs), nil
}
