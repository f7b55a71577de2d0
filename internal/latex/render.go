// Package latex renders styled text runs
// as LaTeX verbatim-compatible markup.
//
// The output targets a fancyvrb Verbatim environment with
// commandchars enabled, so styling commands work inside it while
// everything else renders literally.
package latex

import (
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"

	"go.tlbx.dev/chromatex/internal/extract"
)

// Defaults for the listing wrapper and the renderer knobs.
const (
	DefaultCaption = "Generated listing"
	DefaultLabel   = "lst:generated"

	DefaultEscapeStart = "<@"
	DefaultEscapeEnd   = "@>"
	DefaultTabSize     = 4
)

// Document is one highlighted listing to be rendered.
type Document struct {
	// Runs holds the styled text in document order.
	Runs []extract.Run

	// Caption and Label are embedded in the listing wrapper.
	Caption string
	Label   string

	// Raw suppresses the wrapper
	// and emits only the styled, escaped text.
	Raw bool
}

// Renderer emits LaTeX markup for styled runs.
//
// The zero value is a usable renderer with the default escape markers.
type Renderer struct {
	// TabSize is the number of spaces a tab expands to.
	// Tabs must not survive into the verbatim output:
	// their width there is undefined.
	// Zero removes tabs entirely;
	// negative values fall back to [DefaultTabSize].
	TabSize int

	// EscapeStart and EscapeEnd delimit escape windows.
	// Text between the markers is passed through as raw LaTeX,
	// bypassing escaping and styling.
	EscapeStart string
	EscapeEnd   string

	// German additionally escapes double quotes as \dq{},
	// for documents using babel with [ngerman].
	German bool
}

// Render writes the LaTeX rendering of doc to w.
//
// Render trusts its input: runs are assumed to be well-formed as
// produced by the extractor, and no validation is performed.
func (r *Renderer) Render(w io.Writer, doc *Document) error {
	var body strings.Builder
	for i := range doc.Runs {
		r.renderRun(&body, &doc.Runs[i])
	}

	if doc.Raw {
		_, err := io.WriteString(w, body.String())
		return errtrace.Wrap(err)
	}

	text := body.String()
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	caption := doc.Caption
	if caption == "" {
		caption = DefaultCaption
	}
	label := doc.Label
	if label == "" {
		label = DefaultLabel
	}

	_, err := fmt.Fprintf(w,
		"\\begin{listing}[H]\n"+
			"\\begin{Verbatim}[commandchars=\\\\\\{\\}]\n"+
			"%s"+
			"\\end{Verbatim}\n"+
			"\\caption{%s}\n"+
			"\\label{%s}\n"+
			"\\end{listing}\n",
		text, caption, label)
	return errtrace.Wrap(err)
}

// renderRun renders a single styled run into sb.
//
// Escape windows are carved out first so that their contents reach the
// output untouched. The remaining text is tab-expanded, escaped, and
// wrapped with the run's style commands. Style commands never span a
// line break: Verbatim processes its body line by line.
func (r *Renderer) renderRun(sb *strings.Builder, run *extract.Run) {
	for _, seg := range splitWindows(run.Text, r.escapeStart(), r.escapeEnd()) {
		if seg.raw {
			sb.WriteString(seg.text)
			continue
		}

		text := strings.ReplaceAll(seg.text, "\t", strings.Repeat(" ", r.tabSize()))
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			sb.WriteString(r.wrap(escape(line, r.German), run))
		}
	}
}

// wrap applies the run's color and style flags to already-escaped
// text. The nesting order is fixed so output is stable:
// color outermost, then bold, underline, and italic innermost.
func (r *Renderer) wrap(text string, run *extract.Run) string {
	if run.Italic {
		text = `\textit{` + text + `}`
	}
	if run.Underline {
		text = `\underline{` + text + `}`
	}
	if run.Bold {
		text = `\textbf{` + text + `}`
	}
	return `\textcolor[HTML]{` + run.Color + `}{` + text + `}`
}

func (r *Renderer) tabSize() int {
	if r.TabSize < 0 {
		return DefaultTabSize
	}
	return r.TabSize
}

func (r *Renderer) escapeStart() string {
	if r.EscapeStart == "" {
		return DefaultEscapeStart
	}
	return r.EscapeStart
}

func (r *Renderer) escapeEnd() string {
	if r.EscapeEnd == "" {
		return DefaultEscapeEnd
	}
	return r.EscapeEnd
}
