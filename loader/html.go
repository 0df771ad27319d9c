package loader

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/rosterlab/rosterize/model"
)

// Synthetic geometry for HTML sources, which have no page coordinates.
// The values only need to preserve reading order and paragraph gaps
// for the line assembler.
const (
	htmlCharWidth    = 7.0
	htmlLineHeight   = 14.0
	htmlParagraphGap = 2 * htmlLineHeight
	htmlMargin       = 36.0
	htmlFontSize     = 11.0
)

// blockTags start a new synthetic line.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"table": true, "ul": true, "ol": true, "section": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// paragraphTags additionally open a paragraph-sized vertical gap.
var paragraphTags = map[string]bool{
	"p": true, "div": true, "table": true, "section": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// skipTags are dropped entirely.
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true, "noscript": true,
}

type htmlWalker struct {
	tokens []model.Token
	x, y   float64
	atLine bool // something was emitted on the current line
}

func (l *Loader) loadHTML(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening html: %w", err)
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	w := &htmlWalker{x: htmlMargin, y: htmlMargin}
	w.walk(root, false, false)

	page := &model.Page{
		Index:  0,
		Tokens: w.tokens,
		Width:  defaultPageWidth,
		Height: w.y + htmlMargin,
		Flags:  model.NewFlagSet(),
	}
	if page.Height < defaultPageHeight {
		page.Height = defaultPageHeight
	}
	return &model.Document{Pages: []*model.Page{page}}, nil
}

func (w *htmlWalker) walk(n *html.Node, bold, underlined bool) {
	switch n.Type {
	case html.ElementNode:
		tag := n.Data
		if skipTags[tag] {
			return
		}
		switch tag {
		case "b", "strong", "th":
			bold = true
		case "u", "ins":
			underlined = true
		case "h1", "h2", "h3", "h4", "h5", "h6":
			bold = true
		}
		if blockTags[tag] {
			w.breakLine(paragraphTags[tag])
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c, bold, underlined)
		}
		if blockTags[tag] {
			w.breakLine(false)
		}

	case html.TextNode:
		w.emit(n.Data, bold, underlined)

	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c, bold, underlined)
		}
	}
}

func (w *htmlWalker) breakLine(paragraph bool) {
	if w.atLine {
		w.y += htmlLineHeight
		w.x = htmlMargin
		w.atLine = false
	}
	if paragraph {
		w.y += htmlParagraphGap - htmlLineHeight
	}
}

func (w *htmlWalker) emit(text string, bold, underlined bool) {
	for _, field := range strings.Fields(text) {
		width := float64(utf8.RuneCountInString(field)) * htmlCharWidth
		w.tokens = append(w.tokens, model.Token{
			Text: field,
			BBox: model.BBox{
				X:      w.x,
				Y:      w.y,
				Width:  width,
				Height: htmlFontSize,
			},
			FontSize:   htmlFontSize,
			Bold:       bold,
			Underlined: underlined,
			Confidence: 1.0,
		})
		w.x += width + htmlCharWidth
		w.atLine = true
	}
}
