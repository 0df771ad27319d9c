package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"go.uber.org/zap"

	"github.com/rosterlab/rosterize/model"
)

// US Letter, the fallback when a page carries no MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// rowTolerance groups glyphs onto the same baseline before word
// merging.
const rowTolerance = 2.0

// wordGapFactor is the fraction of the font size beyond which a gap
// between glyphs starts a new word.
const wordGapFactor = 0.3

func (l *Loader) loadPDF(path string) (*model.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	doc := &model.Document{}
	total := reader.NumPage()
	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		p := &model.Page{Index: num - 1, Flags: model.NewFlagSet()}
		if page.V.IsNull() {
			p.Scanned = true
			doc.Pages = append(doc.Pages, p)
			continue
		}

		p.Width, p.Height = mediaBox(page)
		p.Tokens = tokensFromTexts(page.Content().Text, p.Height)
		if len(p.Tokens) == 0 {
			// No text layer: an image-only scan.
			p.Scanned = true
		}
		doc.Pages = append(doc.Pages, p)
		l.log.Debug("pdf page read",
			zap.Int("page", num-1),
			zap.Int("tokens", len(p.Tokens)),
			zap.Bool("scanned", p.Scanned))
	}
	return doc, nil
}

// mediaBox resolves the page dimensions, following Parent links since
// the MediaBox is often inherited from the page tree root.
func mediaBox(page pdf.Page) (width, height float64) {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.IsNull() || mb.Len() < 4 {
			continue
		}
		w := mb.Index(2).Float64() - mb.Index(0).Float64()
		h := mb.Index(3).Float64() - mb.Index(1).Float64()
		if w > 0 && h > 0 {
			return w, h
		}
	}
	return defaultPageWidth, defaultPageHeight
}

// tokensFromTexts merges per-glyph content stream items into word
// tokens and flips the coordinate system: PDF y grows upward from the
// page bottom, the page model's grows downward from the top.
func tokensFromTexts(texts []pdf.Text, pageHeight float64) []model.Token {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" {
			glyphs = append(glyphs, t)
		}
	}
	if len(glyphs) == 0 {
		return nil
	}

	// Rows top to bottom (descending PDF y), then left to right.
	sort.SliceStable(glyphs, func(i, j int) bool {
		if di := glyphs[i].Y - glyphs[j].Y; di > rowTolerance || di < -rowTolerance {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var tokens []model.Token
	var word []pdf.Text
	flush := func() {
		if len(word) == 0 {
			return
		}
		// Zero-width boxes come from hidden or malformed text items.
		if tok := wordToken(word, pageHeight); tok.BBox.IsValid() {
			tokens = append(tokens, tok)
		}
		word = word[:0]
	}

	for _, g := range glyphs {
		if len(word) > 0 {
			last := word[len(word)-1]
			sameRow := g.Y-last.Y <= rowTolerance && last.Y-g.Y <= rowTolerance
			gap := g.X - (last.X + last.W)
			maxGap := wordGapFactor * g.FontSize
			if maxGap <= 0 {
				maxGap = 3.0
			}
			if !sameRow || gap > maxGap {
				flush()
			}
		}
		word = append(word, g)
	}
	flush()
	return tokens
}

func wordToken(glyphs []pdf.Text, pageHeight float64) model.Token {
	first, last := glyphs[0], glyphs[len(glyphs)-1]

	var sb strings.Builder
	fontSize := 0.0
	for _, g := range glyphs {
		sb.WriteString(g.S)
		if g.FontSize > fontSize {
			fontSize = g.FontSize
		}
	}
	if fontSize == 0 {
		fontSize = 10.0
	}

	return model.Token{
		Text: sb.String(),
		BBox: model.BBox{
			X:      first.X,
			Y:      pageHeight - (first.Y + fontSize),
			Width:  last.X + last.W - first.X,
			Height: fontSize,
		},
		Font:       first.Font,
		FontSize:   fontSize,
		Bold:       strings.Contains(first.Font, "Bold"),
		Confidence: 1.0,
	}
}
