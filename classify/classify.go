// Package classify decides, per page, whether the page is digital text
// or a scan, and estimates its column layout from token geometry. The
// decision degrades gracefully: an uncertain page is never an error, it
// is flagged and processed through the single-column fallback path.
package classify

import (
	"sort"

	"github.com/rosterlab/rosterize/model"
)

// Config holds configuration for page classification.
type Config struct {
	// TextDensityThreshold is the minimum ratio of token area to page
	// area for a page to count as digital text.
	TextDensityThreshold float64

	// MinGapWidthRatio is the minimum whitespace valley width as a
	// fraction of page width.
	MinGapWidthRatio float64

	// MinGapHeightRatio is the minimum vertical extent of a gap as a
	// fraction of page height.
	MinGapHeightRatio float64

	// MinColumnMass is the minimum token fraction each side of a split
	// must carry.
	MinColumnMass float64

	// MaxColumns bounds the estimate.
	MaxColumns int

	// ConfidenceThreshold marks pages below it as uncertain.
	ConfidenceThreshold float64
}

// DefaultConfig returns sensible default configuration. The gap ratio
// corresponds to roughly 18pt on a US Letter page.
func DefaultConfig() Config {
	return Config{
		TextDensityThreshold: 0.001,
		MinGapWidthRatio:     0.03,
		MinGapHeightRatio:    0.5,
		MinColumnMass:        0.25,
		MaxColumns:           3,
		ConfidenceThreshold:  0.5,
	}
}

// Classifier classifies pages and estimates column layout.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration.
func NewClassifierWithConfig(config Config) *Classifier {
	return &Classifier{config: config}
}

// Classify annotates the page in place with its scanned flag, column
// estimate, split positions and confidence. It never fails; a page it
// cannot read confidently comes back flagged uncertain with the
// single-column fallback applied.
func (c *Classifier) Classify(page *model.Page) {
	if page == nil {
		return
	}
	if page.Flags == nil {
		page.Flags = model.NewFlagSet()
	}

	c.ensureDimensions(page)

	if !page.HasText() {
		// Nothing recoverable from the text layer: OCR territory.
		page.Scanned = true
		page.ColumnCount = 1
		page.ClassifierConfidence = 0
		return
	}

	if c.textDensity(page) < c.config.TextDensityThreshold {
		// A handful of stray glyphs on an image page is not a text layer.
		page.Scanned = true
		page.ColumnCount = 1
		page.ClassifierConfidence = 0.3
		page.Flags.Set(model.FlagUncertainClassification)
		return
	}

	page.Scanned = false
	splits, confidence := c.detectColumns(page)

	if confidence < c.config.ConfidenceThreshold {
		page.ColumnCount = 1
		page.ColumnSplits = nil
		page.ClassifierConfidence = confidence
		page.Flags.Set(model.FlagUncertainClassification)
		return
	}

	page.ColumnCount = len(splits) + 1
	page.ColumnSplits = splits
	page.ClassifierConfidence = confidence
}

// ensureDimensions derives page dimensions from token extents when the
// loader could not provide them.
func (c *Classifier) ensureDimensions(page *model.Page) {
	if page.Width > 0 && page.Height > 0 {
		return
	}
	if len(page.Tokens) == 0 {
		return
	}
	for _, tok := range page.Tokens {
		if tok.BBox.Right() > page.Width {
			page.Width = tok.BBox.Right()
		}
		if tok.BBox.Bottom() > page.Height {
			page.Height = tok.BBox.Bottom()
		}
	}
}

// textDensity is the ratio of summed token area to page area.
func (c *Classifier) textDensity(page *model.Page) float64 {
	area := page.Width * page.Height
	if area <= 0 {
		return 0
	}
	var covered float64
	for _, tok := range page.Tokens {
		covered += tok.BBox.Area()
	}
	return covered / area
}

// slab is a horizontal range covered by text.
type slab struct {
	left, right float64
}

// detectColumns finds whitespace valleys wide and tall enough to be
// column separators, keeps only splits with balanced token mass on both
// sides, and returns the split positions with a confidence score.
func (c *Classifier) detectColumns(page *model.Page) ([]float64, float64) {
	tokens := page.Tokens
	minGapWidth := c.config.MinGapWidthRatio * page.Width

	slabs := make([]slab, 0, len(tokens))
	for _, tok := range tokens {
		slabs = append(slabs, slab{left: tok.BBox.Left(), right: tok.BBox.Right()})
	}
	sort.Slice(slabs, func(i, j int) bool { return slabs[i].left < slabs[j].left })
	merged := mergeSlabs(slabs)

	type gap struct {
		center float64
		extent float64
	}
	var accepted []gap
	rejected := false

	for i := 0; i < len(merged)-1; i++ {
		left := merged[i].right
		right := merged[i+1].left
		if right-left < minGapWidth {
			continue
		}

		extent := c.gapVerticalExtent(tokens, left, right, page.Height)
		if extent < c.config.MinGapHeightRatio {
			rejected = true
			continue
		}

		center := (left + right) / 2
		if !c.massBalanced(tokens, center) {
			rejected = true
			continue
		}

		accepted = append(accepted, gap{center: center, extent: extent})
	}

	if len(accepted) > c.config.MaxColumns-1 {
		accepted = accepted[:c.config.MaxColumns-1]
	}

	if len(accepted) == 0 {
		// Single column. A rejected candidate gap leaves some doubt.
		if rejected {
			return nil, 0.6
		}
		return nil, 0.9
	}

	splits := make([]float64, len(accepted))
	total := 0.0
	for i, g := range accepted {
		splits[i] = g.center
		total += g.extent
	}
	sort.Float64s(splits)

	return splits, total / float64(len(accepted))
}

// massBalanced checks that both sides of a candidate split carry at
// least the configured fraction of tokens. The historical heuristic: a
// two-column page has at least a quarter of its words on each side.
func (c *Classifier) massBalanced(tokens []model.Token, split float64) bool {
	left := 0
	for _, tok := range tokens {
		// A token straddling the split counts by its center.
		if tok.BBox.Center().X < split {
			left++
		}
	}
	total := len(tokens)
	if total == 0 {
		return false
	}
	leftRatio := float64(left) / float64(total)
	return leftRatio >= c.config.MinColumnMass && 1-leftRatio >= c.config.MinColumnMass
}

// mergeSlabs merges overlapping or nearly adjacent horizontal slabs.
func mergeSlabs(slabs []slab) []slab {
	if len(slabs) == 0 {
		return nil
	}

	merged := []slab{slabs[0]}
	for _, cur := range slabs[1:] {
		last := &merged[len(merged)-1]
		if cur.left <= last.right+5.0 {
			if cur.right > last.right {
				last.right = cur.right
			}
		} else {
			merged = append(merged, cur)
		}
	}
	return merged
}

// gapVerticalExtent measures what fraction of the page height a vertical
// gap spans unobstructed.
func (c *Classifier) gapVerticalExtent(tokens []model.Token, gapLeft, gapRight, pageHeight float64) float64 {
	if pageHeight <= 0 {
		return 0
	}

	type yRange struct{ top, bottom float64 }
	var crossing []yRange

	for _, tok := range tokens {
		if tok.BBox.Right() > gapLeft && tok.BBox.Left() < gapRight {
			crossing = append(crossing, yRange{top: tok.BBox.Top(), bottom: tok.BBox.Bottom()})
		}
	}

	if len(crossing) == 0 {
		return 1.0
	}

	sort.Slice(crossing, func(i, j int) bool { return crossing[i].top < crossing[j].top })

	mergedRanges := []yRange{crossing[0]}
	for _, cur := range crossing[1:] {
		last := &mergedRanges[len(mergedRanges)-1]
		if cur.top <= last.bottom {
			if cur.bottom > last.bottom {
				last.bottom = cur.bottom
			}
		} else {
			mergedRanges = append(mergedRanges, cur)
		}
	}

	blocked := 0.0
	for _, r := range mergedRanges {
		blocked += r.bottom - r.top
	}

	return (pageHeight - blocked) / pageHeight
}
