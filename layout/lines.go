package layout

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rosterlab/rosterize/model"
)

// Config holds configuration for line building and column segmentation.
type Config struct {
	// YTolerance is the maximum vertical distance, in page units,
	// between tokens on the same line.
	YTolerance float64

	// ParagraphGapFactor multiplies the median gap between line
	// midpoints; a larger gap marks a paragraph boundary.
	ParagraphGapFactor float64

	// BoldRatio is the minimum fraction of bold tokens for a line to
	// count as bold.
	BoldRatio float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		YTolerance:         3.0,
		ParagraphGapFactor: 1.5,
		BoldRatio:          0.5,
	}
}

// Segmenter partitions page tokens into columns and produces the final
// reading-order line sequence.
type Segmenter struct {
	config Config
}

// NewSegmenter creates a segmenter with default configuration.
func NewSegmenter() *Segmenter {
	return &Segmenter{config: DefaultConfig()}
}

// NewSegmenterWithConfig creates a segmenter with custom configuration.
func NewSegmenterWithConfig(config Config) *Segmenter {
	return &Segmenter{config: config}
}

// Lines clusters the page's tokens into lines, splits them into columns
// at the classifier's split positions, and concatenates the columns left
// to right. Within a column, lines run top to bottom and tokens left to
// right.
func (s *Segmenter) Lines(page *model.Page) []model.Line {
	if page == nil || len(page.Tokens) == 0 {
		return nil
	}

	columns := s.splitColumns(page)

	var out []model.Line
	for colIdx, tokens := range columns {
		lines := s.buildColumnLines(tokens, page.Index, colIdx)
		out = append(out, lines...)
	}

	return out
}

// splitColumns assigns tokens to columns by their left edge against the
// page's split positions. With no splits the page is one column.
func (s *Segmenter) splitColumns(page *model.Page) [][]model.Token {
	splits := page.ColumnSplits
	columns := make([][]model.Token, len(splits)+1)

	for _, tok := range page.Tokens {
		idx := len(splits)
		for i, split := range splits {
			if tok.X() < split {
				idx = i
				break
			}
		}
		columns[idx] = append(columns[idx], tok)
	}

	return columns
}

// buildColumnLines clusters one column's tokens into y-bands, assembles
// line text, and marks paragraph starts.
func (s *Segmenter) buildColumnLines(tokens []model.Token, pageIndex, colIdx int) []model.Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]model.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top() != sorted[j].Top() {
			return sorted[i].Top() < sorted[j].Top()
		}
		return sorted[i].X() < sorted[j].X()
	})

	// Cluster into lines: a token joins the current band while its top
	// edge is within tolerance of the band's running top.
	var bands [][]model.Token
	current := []model.Token{sorted[0]}
	bandY := sorted[0].Top()

	for _, tok := range sorted[1:] {
		if tok.Top()-bandY <= s.config.YTolerance {
			current = append(current, tok)
			bandY = tok.Top()
			continue
		}
		bands = append(bands, current)
		current = []model.Token{tok}
		bandY = tok.Top()
	}
	bands = append(bands, current)

	colLeft := sorted[0].X()
	for _, tok := range sorted {
		if tok.X() < colLeft {
			colLeft = tok.X()
		}
	}

	lines := make([]model.Line, 0, len(bands))
	for _, band := range bands {
		lines = append(lines, s.assembleLine(band, pageIndex, colIdx, colLeft))
	}

	markParagraphStarts(lines, s.config.ParagraphGapFactor)

	return lines
}

// assembleLine joins a y-band of tokens into a single line.
func (s *Segmenter) assembleLine(band []model.Token, pageIndex, colIdx int, colLeft float64) model.Line {
	sort.SliceStable(band, func(i, j int) bool {
		return band[i].X() < band[j].X()
	})

	parts := make([]string, 0, len(band))
	bbox := band[0].BBox
	boldCount := 0
	underlined := false

	for _, tok := range band {
		parts = append(parts, tok.Text)
		bbox = bbox.Union(tok.BBox)
		if tok.Bold {
			boldCount++
		}
		if tok.Underlined {
			underlined = true
		}
	}

	text := strings.Join(parts, " ")

	return model.Line{
		Text:       text,
		PageIndex:  pageIndex,
		Column:     colIdx,
		BBox:       bbox,
		Bold:       float64(boldCount) >= s.config.BoldRatio*float64(len(band)),
		Underlined: underlined,
		AllCaps:    IsAllCaps(text),
		Indent:     bbox.X - colLeft,
	}
}

// markParagraphStarts flags lines preceded by a vertical gap larger than
// the median line gap times the paragraph factor.
func markParagraphStarts(lines []model.Line, factor float64) {
	if len(lines) == 0 {
		return
	}
	lines[0].ParagraphStart = true
	if len(lines) < 3 {
		for i := 1; i < len(lines); i++ {
			lines[i].ParagraphStart = true
		}
		return
	}

	mids := make([]float64, len(lines))
	for i, ln := range lines {
		mids[i] = ln.BBox.MidY()
	}

	gaps := make([]float64, 0, len(mids)-1)
	for i := 1; i < len(mids); i++ {
		gaps = append(gaps, mids[i]-mids[i-1])
	}
	sorted := make([]float64, len(gaps))
	copy(sorted, gaps)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	threshold := median * factor

	for i := 1; i < len(lines); i++ {
		lines[i].ParagraphStart = gaps[i-1] > threshold
	}
}

// IsAllCaps reports whether the text has the delegation-header shape:
// nothing but uppercase letters, spaces and slashes, with at least one
// letter. Digits, lowercase letters or punctuation disqualify it.
func IsAllCaps(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" {
		return false
	}

	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case r == ' ' || r == '/':
		default:
			return false
		}
	}

	return hasLetter
}
