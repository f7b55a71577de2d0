package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"braces.dev/errtrace"

	"go.tlbx.dev/chromatex/internal/extract"
	"go.tlbx.dev/chromatex/internal/highlight"
	"go.tlbx.dev/chromatex/internal/latex"
)

// Highlighter produces a styled HTML document for a source file.
type Highlighter interface {
	Highlight(ctx context.Context, req highlight.Request) ([]byte, error)
}

var (
	_ Highlighter = (*highlight.Chroma)(nil)
	_ Highlighter = (*highlight.TreeSitter)(nil)
)

// Extractor pulls styled text runs out of an HTML document.
type Extractor interface {
	Extract(src []byte) ([]extract.Run, error)
}

var _ Extractor = (*extract.Extractor)(nil)

// Renderer turns styled runs into the final LaTeX markup.
type Renderer interface {
	Render(w io.Writer, doc *latex.Document) error
}

var _ Renderer = (*latex.Renderer)(nil)

// Converter runs the highlight, extract, render pipeline for one
// source file.
//
// In terms of code organization,
// Converter's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Converter struct {
	Log *log.Logger

	Highlighter Highlighter
	Extractor   Extractor
	Renderer    Renderer
}

// ConvertRequest is one source file and the metadata for its listing.
type ConvertRequest struct {
	Path   string
	Source []byte

	Caption string
	Label   string
	Raw     bool
}

// Convert turns the requested source file into LaTeX markup.
func (c *Converter) Convert(ctx context.Context, req ConvertRequest) (string, error) {
	htmlDoc, err := c.Highlighter.Highlight(ctx, highlight.Request{
		Path:   req.Path,
		Source: req.Source,
	})
	if err != nil {
		return "", errtrace.Wrap(fmt.Errorf("highlight: %w", err))
	}

	runs, err := c.Extractor.Extract(htmlDoc)
	if err != nil {
		return "", errtrace.Wrap(fmt.Errorf("extract: %w", err))
	}
	if len(runs) == 0 {
		// Structurally valid but almost certainly not what the user
		// wanted. Warn and emit the (empty) document anyway.
		c.Log.Printf("no highlighted text found in %v; the output is probably incomplete", req.Path)
	}

	var sb strings.Builder
	err = c.Renderer.Render(&sb, &latex.Document{
		Runs:    runs,
		Caption: req.Caption,
		Label:   req.Label,
		Raw:     req.Raw,
	})
	if err != nil {
		return "", errtrace.Wrap(fmt.Errorf("render: %w", err))
	}
	return sb.String(), nil
}
