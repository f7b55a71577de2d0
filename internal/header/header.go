// Package header parses the optional metadata comment on the first
// line of an input file.
//
// A header lets a source file set the caption and label of its own
// listing:
//
//	// chromatex: caption: Widget setup label: lst:widget
//
// Both fields are optional, but a line with neither is not a header.
// When a header is present, the first line is metadata rather than
// code and must not appear in the highlighted output.
package header

import (
	"regexp"
	"strings"
)

// Info carries the caption and label overrides
// found in a header comment.
type Info struct {
	Caption string
	Label   string
}

var _headerRe = regexp.MustCompile(
	`^chromatex:\s*(?:caption:\s*(.*?))?\s*(?:label:\s*(.*?))?\s*$`)

// Parse inspects the first line of content for a header comment
// starting with one of the given comment prefixes.
// It reports whether a header was found.
func Parse(content string, prefixes []string) (*Info, bool) {
	line, _, _ := strings.Cut(content, "\n")
	line = strings.TrimSuffix(line, "\r")

	for _, prefix := range prefixes {
		if prefix == "" || !strings.HasPrefix(line, prefix) {
			continue
		}

		m := _headerRe.FindStringSubmatch(strings.TrimSpace(line[len(prefix):]))
		if m == nil {
			continue
		}

		info := Info{
			Caption: strings.TrimSpace(m[1]),
			Label:   strings.TrimSpace(m[2]),
		}
		if info.Caption == "" && info.Label == "" {
			continue
		}
		return &info, true
	}
	return nil, false
}
