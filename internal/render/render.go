// Package render splits solution steps into plain text and inline code so
// every front end can highlight backtick-quoted identifiers.
package render

import "strings"

type Segment struct {
	Text string
	Code bool
}

// Segments splits s on backtick pairs. An unmatched trailing backtick is kept
// as literal text.
func Segments(s string) []Segment {
	var segs []Segment
	for {
		open := strings.IndexByte(s, '`')
		if open < 0 {
			break
		}
		end := strings.IndexByte(s[open+1:], '`')
		if end < 0 {
			break
		}
		end += open + 1
		if open > 0 {
			segs = append(segs, Segment{Text: s[:open]})
		}
		if end > open+1 {
			segs = append(segs, Segment{Text: s[open+1 : end], Code: true})
		} else {
			segs = append(segs, Segment{Text: "``"})
		}
		s = s[end+1:]
	}
	if s != "" {
		segs = append(segs, Segment{Text: s})
	}
	return segs
}
