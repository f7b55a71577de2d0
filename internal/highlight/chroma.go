// Package highlight produces syntax-highlighted HTML for source
// files, either in-process through the chroma library or by invoking
// the tree-sitter CLI.
//
// Either way, the result is an HTML document whose styled text the
// extract package knows how to pull apart.
package highlight

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"braces.dev/errtrace"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used
// when no other style is requested.
const DefaultStyle = "github"

// Request identifies the source code to highlight.
type Request struct {
	// Path is the location of the source file on disk.
	// It drives language detection.
	Path string

	// Source holds the file contents.
	Source []byte
}

// Chroma highlights source code in-process
// using the chroma lexer registry.
type Chroma struct {
	// Style is the name of the chroma style to highlight with.
	// Defaults to [DefaultStyle].
	Style string

	// Debug receives diagnostics about lexer selection.
	Debug *log.Logger

	once      sync.Once
	formatter *chromahtml.Formatter
}

func (c *Chroma) init() {
	c.once.Do(func() {
		c.formatter = chromahtml.New(
			chromahtml.WithClasses(false),
			chromahtml.PreventSurroundingPre(true),
		)
	})
}

// Highlight renders the requested source as an HTML document with
// per-token inline styles, wrapped in a pre/code block.
func (c *Chroma) Highlight(_ context.Context, req Request) ([]byte, error) {
	c.init()

	source := string(req.Source)
	lexer := lexers.Match(filepath.Base(req.Path))
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	if c.Debug != nil {
		c.Debug.Printf("highlighting %v as %v", req.Path, lexer.Config().Name)
	}

	styleName := c.Style
	if styleName == "" {
		styleName = DefaultStyle
	}
	style := styles.Get(styleName)

	iter, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("tokenize %v: %w", req.Path, err))
	}

	var buf bytes.Buffer
	buf.WriteString("<pre><code>")
	if err := c.formatter.Format(&buf, style, iter); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("highlight %v: %w", req.Path, err))
	}
	buf.WriteString("</code></pre>")
	return buf.Bytes(), nil
}
