package layout

import (
	"regexp"
	"strings"

	"github.com/rosterlab/rosterize/model"
)

// NormalizerConfig holds configuration for line normalization.
type NormalizerConfig struct {
	// NoisePatterns match whole lines that are pagination or footer
	// noise and are dropped before segmentation.
	NoisePatterns []*regexp.Regexp

	// RepairWraps enables merging of hyphen-wrapped line pairs.
	RepairWraps bool
}

// Default noise shapes: bare page numbers, "- 12 -" centerfolds,
// "Page 3 of 10" footers and dotted leaders.
var defaultNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,4}$`),
	regexp.MustCompile(`^[-–—]\s*\d{1,4}\s*[-–—]$`),
	regexp.MustCompile(`(?i)^page\s+\d+(\s+(of|de|/)\s*\d+)?$`),
	regexp.MustCompile(`^\.{3,}$`),
}

// DefaultNormalizerConfig returns sensible default configuration.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		NoisePatterns: defaultNoisePatterns,
		RepairWraps:   true,
	}
}

// Normalizer cleans a reading-order line sequence: whitespace collapse,
// noise removal and wrap repair. Lines are immutable once it is done.
type Normalizer struct {
	config NormalizerConfig
}

// NewNormalizer creates a normalizer with default configuration.
func NewNormalizer() *Normalizer {
	return &Normalizer{config: DefaultNormalizerConfig()}
}

// NewNormalizerWithConfig creates a normalizer with custom configuration.
func NewNormalizerWithConfig(config NormalizerConfig) *Normalizer {
	return &Normalizer{config: config}
}

var spaceRun = regexp.MustCompile(`\s+`)

// Normalize returns the cleaned line sequence. Input order is preserved;
// noise lines are dropped and wrapped pairs are merged, so the result
// may be shorter than the input.
func (n *Normalizer) Normalize(lines []model.Line) []model.Line {
	out := make([]model.Line, 0, len(lines))

	for _, ln := range lines {
		text := strings.TrimSpace(spaceRun.ReplaceAllString(ln.Text, " "))
		if text == "" || n.isNoise(text) {
			continue
		}
		ln.Text = text

		if n.config.RepairWraps && len(out) > 0 {
			prev := &out[len(out)-1]
			if canMergeWrap(*prev, ln) {
				prev.Text = strings.TrimSuffix(prev.Text, "-") + ln.Text
				prev.BBox = prev.BBox.Union(ln.BBox)
				prev.AllCaps = IsAllCaps(prev.Text)
				continue
			}
		}

		ln.AllCaps = IsAllCaps(ln.Text)
		out = append(out, ln)
	}

	return out
}

// isNoise reports whether the line matches any configured noise pattern.
func (n *Normalizer) isNoise(text string) bool {
	for _, p := range n.config.NoisePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// canMergeWrap reports whether prev was wrapped mid-word onto next: prev
// ends with a hyphen, both lines sit in the same column of the same
// page, and next is not a paragraph start.
func canMergeWrap(prev, next model.Line) bool {
	if !strings.HasSuffix(prev.Text, "-") || len(prev.Text) < 2 {
		return false
	}
	if prev.PageIndex != next.PageIndex || prev.Column != next.Column {
		return false
	}
	return !next.ParagraphStart
}
