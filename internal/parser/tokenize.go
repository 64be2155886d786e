// Package parser turns raw task text into classified tokens, markup and
// extracted metadata. Every function here is pure and total.
package parser

import "unicode"

// Segment is either a whitespace run or a word. Concatenating the segments
// returned by Tokenize reproduces the input exactly.
type Segment struct {
	Text  string
	Space bool
}

func Tokenize(s string) []Segment {
	out := make([]Segment, 0)
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			out = append(out, Segment{Text: s[start:i], Space: inSpace})
			start = i
			inSpace = space
		}
	}
	if start < len(s) {
		out = append(out, Segment{Text: s[start:], Space: inSpace})
	}
	return out
}

// Join reassembles segments into the original string.
func Join(segments []Segment) string {
	n := 0
	for _, seg := range segments {
		n += len(seg.Text)
	}
	buf := make([]byte, 0, n)
	for _, seg := range segments {
		buf = append(buf, seg.Text...)
	}
	return string(buf)
}
