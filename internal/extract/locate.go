package extract

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// styledText is a text node paired with the inline style that governs
// it and the index of the highlighted line it starts on.
type styledText struct {
	text  string
	style string // raw inline CSS, "" when absent
	line  int
}

// locator knows one structural convention
// for finding highlighted text in a document.
type locator interface {
	// locate returns the document's styled text nodes in document
	// order, or false if the document does not follow this convention.
	locate(doc *html.Node) ([]styledText, bool)
}

// Locators are tried in order. The inline convention comes first:
// it is self-contained per node and less sensitive to
// highlighter-version drift than the line-table layout.
var _locators = []locator{
	inlineLocator{},
	lineTableLocator{},
}

var (
	_codeSel = cascadia.MustCompile("pre code")
	_preSel  = cascadia.MustCompile("pre")
	_lineSel = cascadia.MustCompile("td.line")
)

// inlineLocator handles highlighters that emit span elements
// with inline style attributes inside a pre or pre/code block.
type inlineLocator struct{}

func (inlineLocator) String() string { return "inline span" }

func (inlineLocator) locate(doc *html.Node) ([]styledText, bool) {
	container := _codeSel.MatchFirst(doc)
	if container == nil {
		container = _preSel.MatchFirst(doc)
	}
	if container == nil {
		return nil, false
	}

	var (
		texts []styledText
		line  int
	)
	walkText(container, func(n *html.Node) {
		texts = append(texts, styledText{
			text:  n.Data,
			style: nearestStyle(n, container),
			line:  line,
		})
		line += strings.Count(n.Data, "\n")
	})
	return texts, true
}

// lineTableLocator handles highlighters that emit one table row per
// source line, with styling on ancestor elements of each text node.
// tree-sitter's "highlight -H" output has this shape.
type lineTableLocator struct{}

func (lineTableLocator) String() string { return "line table" }

func (lineTableLocator) locate(doc *html.Node) ([]styledText, bool) {
	cells := _lineSel.MatchAll(doc)
	if len(cells) == 0 {
		return nil, false
	}

	var texts []styledText
	for i, cell := range cells {
		walkText(cell, func(n *html.Node) {
			texts = append(texts, styledText{
				text:  n.Data,
				style: nearestStyle(n, cell),
				line:  i,
			})
		})
	}
	return texts, true
}

// walkText visits every text node under n in document order.
func walkText(n *html.Node, visit func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			visit(c)
			continue
		}
		walkText(c, visit)
	}
}

// nearestStyle returns the style attribute of the closest ancestor of
// n below container, or "" if no ancestor carries one. The container
// itself is excluded: its style describes the block, not the text.
func nearestStyle(n, container *html.Node) string {
	for p := n.Parent; p != nil && p != container; p = p.Parent {
		if style := attrVal(p, "style"); style != "" {
			return style
		}
	}
	return ""
}

func attrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
