// Package extract turns highlighter-generated HTML
// into a flat, ordered sequence of styled text runs.
//
// Concatenating the Text of all runs in order reproduces the visible
// text of the highlighted document. A run never spans a style boundary.
package extract

import (
	"bytes"
	"fmt"
	"log"
	"regexp"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// DefaultColor is the foreground color used for text
// whose style does not specify one.
const DefaultColor = "000000"

// Run is a contiguous span of text rendered with a single style.
type Run struct {
	// Text holds the exact characters of the run,
	// including whitespace.
	Text string

	// Color is the foreground color
	// as six uppercase hex digits without a leading '#'.
	Color string

	Bold      bool
	Underline bool
	Italic    bool
}

// Extractor pulls styled runs out of a highlighter's HTML output.
//
// It recognizes two structural conventions:
// span elements with inline styles inside a pre/code block
// (chroma and similar inline highlighters),
// and line-per-row tables with styling on ancestor elements
// (tree-sitter's HTML output).
type Extractor struct {
	// DefaultColor is the fallback foreground color as hex digits.
	// Defaults to black.
	DefaultColor string

	// SkipFirstLine drops all runs that originate
	// from the first highlighted line.
	SkipFirstLine bool

	// Debug receives diagnostics about the extraction.
	Debug *log.Logger
}

// Extract decodes src as UTF-8, parses it as an HTML document,
// and returns the styled text runs found in it in document order.
//
// Input that is not valid UTF-8 fails with an error
// matching [encoding.ErrInvalidUTF8].
// A document with no recognizable highlighted text
// yields an empty slice and no error.
func (e *Extractor) Extract(src []byte) ([]Run, error) {
	if _, _, err := transform.Bytes(encoding.UTF8Validator, src); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("decode input: %w", err))
	}

	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("parse HTML: %w", err))
	}

	var texts []styledText
	for _, loc := range _locators {
		ts, ok := loc.locate(doc)
		if !ok {
			continue
		}
		texts = ts
		if e.Debug != nil {
			e.Debug.Printf("matched %v convention (%d text nodes)", loc, len(ts))
		}
		break
	}
	if texts == nil && e.Debug != nil {
		e.Debug.Printf("no highlighted text found in document")
	}

	runs := make([]Run, 0, len(texts))
	for _, t := range texts {
		text := t.text
		if e.SkipFirstLine && t.line == 0 {
			// The first physical line is metadata, not code.
			// Keep only what follows the line break, if anything.
			idx := strings.IndexByte(text, '\n')
			if idx < 0 {
				continue
			}
			text = text[idx+1:]
		}
		if text == "" {
			continue
		}

		run := Run{Text: text}
		run.Color, run.Bold, run.Underline, run.Italic = e.parseStyle(t.style)
		runs = append(runs, run)
	}
	return runs, nil
}

var (
	_hexColor6 = regexp.MustCompile(`#([0-9a-fA-F]{6})`)
	// The boundary keeps 4- and 5-digit sequences from
	// passing as shorthand.
	_hexColor3 = regexp.MustCompile(`#([0-9a-fA-F]{3})\b`)
)

// parseStyle reads a foreground color and the style flags
// out of an inline CSS string.
//
// This is a deliberately permissive keyword scan, not a CSS parser:
// highlighter output is not guaranteed to be canonical CSS,
// and a style we cannot make sense of must degrade to defaults
// rather than fail.
func (e *Extractor) parseStyle(css string) (color string, bold, underline, italic bool) {
	color = e.defaultColor()
	if m := _hexColor6.FindStringSubmatch(css); m != nil {
		color = strings.ToUpper(m[1])
	} else if m := _hexColor3.FindStringSubmatch(css); m != nil {
		// CSS shorthand, e.g. "#666" for "#666666".
		var sb strings.Builder
		for _, r := range strings.ToUpper(m[1]) {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		color = sb.String()
	}

	bold = strings.Contains(css, "bold")
	underline = strings.Contains(css, "underline")
	italic = strings.Contains(css, "italic")
	return color, bold, underline, italic
}

func (e *Extractor) defaultColor() string {
	if e.DefaultColor == "" {
		return DefaultColor
	}
	return strings.ToUpper(strings.TrimPrefix(e.DefaultColor, "#"))
}
