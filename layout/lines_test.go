package layout

import (
	"strings"
	"testing"

	"github.com/rosterlab/rosterize/model"
)

// Helper to create a token.
func makeToken(x, y, width, height float64, txt string) model.Token {
	return model.Token{
		Text:       txt,
		BBox:       model.NewBBox(x, y, width, height),
		Confidence: 1.0,
	}
}

func TestSegmenter_EmptyPage(t *testing.T) {
	seg := NewSegmenter()

	if lines := seg.Lines(&model.Page{Index: 0}); lines != nil {
		t.Errorf("expected nil lines for empty page, got %d", len(lines))
	}
	if lines := seg.Lines(nil); lines != nil {
		t.Error("expected nil lines for nil page")
	}
}

func TestSegmenter_SingleColumnLineGrouping(t *testing.T) {
	seg := NewSegmenter()

	page := &model.Page{
		Index: 0,
		Tokens: []model.Token{
			makeToken(72, 100, 30, 10, "Mr."),
			makeToken(110, 101, 40, 10, "John"), // same band, within tolerance
			makeToken(155, 99, 50, 10, "SMITH"), // same band
			makeToken(72, 120, 80, 10, "Ministry"),
			makeToken(160, 120, 20, 10, "of"),
			makeToken(185, 121, 90, 10, "Environment"),
		},
	}

	lines := seg.Lines(page)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "Mr. John SMITH" {
		t.Errorf("line 0 = %q, want %q", lines[0].Text, "Mr. John SMITH")
	}
	if lines[1].Text != "Ministry of Environment" {
		t.Errorf("line 1 = %q, want %q", lines[1].Text, "Ministry of Environment")
	}
}

func TestSegmenter_TwoColumnReadingOrder(t *testing.T) {
	seg := NewSegmenter()

	// Left column rows interleave vertically with right column rows; the
	// reading order must still be left column first, top to bottom.
	page := &model.Page{
		Index:        0,
		ColumnCount:  2,
		ColumnSplits: []float64{300},
		Tokens: []model.Token{
			makeToken(320, 100, 60, 10, "Right1"),
			makeToken(72, 100, 60, 10, "Left1"),
			makeToken(72, 130, 60, 10, "Left2"),
			makeToken(320, 130, 60, 10, "Right2"),
		},
	}

	lines := seg.Lines(page)

	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	got := make([]string, len(lines))
	for i, ln := range lines {
		got[i] = ln.Text
	}
	want := []string{"Left1", "Left2", "Right1", "Right2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reading order = %v, want %v", got, want)
		}
	}

	if lines[0].Column != 0 || lines[2].Column != 1 {
		t.Errorf("column assignment wrong: %+v", lines)
	}
}

func TestSegmenter_ParagraphStarts(t *testing.T) {
	seg := NewSegmenter()

	// Four lines with a regular 15pt pitch, then a 40pt gap before the
	// last line: only that one starts a new paragraph.
	page := &model.Page{
		Index: 0,
		Tokens: []model.Token{
			makeToken(72, 100, 60, 10, "a"),
			makeToken(72, 115, 60, 10, "b"),
			makeToken(72, 130, 60, 10, "c"),
			makeToken(72, 145, 60, 10, "d"),
			makeToken(72, 185, 60, 10, "e"),
		},
	}

	lines := seg.Lines(page)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	if !lines[0].ParagraphStart {
		t.Error("first line must start a paragraph")
	}
	for i := 1; i < 4; i++ {
		if lines[i].ParagraphStart {
			t.Errorf("line %d should not start a paragraph", i)
		}
	}
	if !lines[4].ParagraphStart {
		t.Error("line after the large gap should start a paragraph")
	}
}

func TestSegmenter_BoldAndIndent(t *testing.T) {
	seg := NewSegmenter()

	bold := makeToken(72, 100, 80, 12, "BELGIUM")
	bold.Bold = true

	page := &model.Page{
		Index: 0,
		Tokens: []model.Token{
			bold,
			makeToken(90, 130, 60, 10, "indented"),
		},
	}

	lines := seg.Lines(page)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !lines[0].Bold {
		t.Error("all-bold line should be marked bold")
	}
	if lines[1].Indent != 18 {
		t.Errorf("indent = %v, want 18", lines[1].Indent)
	}
}

func TestIsAllCaps(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"BELGIUM", true},
		{"SWITZERLAND / SUISSE / SUIZA", true},
		{"INTERNATIONAL CAT CONSERVATION COMMITTEE", true},
		{"Belgium", false},
		{"Mr. John SMITH", false},
		{"COP 12", false}, // digits disqualify
		{"", false},
		{"/ /", false}, // needs at least one letter
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsAllCaps(tt.text); got != tt.want {
				t.Errorf("IsAllCaps(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizer_NoiseAndWhitespace(t *testing.T) {
	n := NewNormalizer()

	lines := []model.Line{
		{Text: "  BELGIUM   ", PageIndex: 0},
		{Text: "12", PageIndex: 0},
		{Text: "- 3 -", PageIndex: 0},
		{Text: "Page 4 of 10", PageIndex: 0},
		{Text: "Mr.   John    SMITH", PageIndex: 0},
		{Text: "   ", PageIndex: 0},
	}

	out := n.Normalize(lines)

	if len(out) != 2 {
		t.Fatalf("expected 2 lines after normalization, got %d: %+v", len(out), out)
	}
	if out[0].Text != "BELGIUM" {
		t.Errorf("line 0 = %q, want BELGIUM", out[0].Text)
	}
	if out[1].Text != "Mr. John SMITH" {
		t.Errorf("line 1 = %q, want collapsed whitespace", out[1].Text)
	}
}

func TestNormalizer_WrapRepair(t *testing.T) {
	n := NewNormalizer()

	lines := []model.Line{
		{Text: "Ministry of Envi-", PageIndex: 0, Column: 0},
		{Text: "ronment", PageIndex: 0, Column: 0},
	}

	out := n.Normalize(lines)

	if len(out) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(out))
	}
	if out[0].Text != "Ministry of Environment" {
		t.Errorf("merged = %q, want %q", out[0].Text, "Ministry of Environment")
	}
}

func TestNormalizer_WrapNotRepairedAcrossColumns(t *testing.T) {
	n := NewNormalizer()

	lines := []model.Line{
		{Text: "Dept of Some-", PageIndex: 0, Column: 0},
		{Text: "where", PageIndex: 0, Column: 1},
	}

	out := n.Normalize(lines)

	if len(out) != 2 {
		t.Fatalf("wrap must not merge across columns, got %d lines", len(out))
	}
	if !strings.HasSuffix(out[0].Text, "-") {
		t.Errorf("unmerged line should keep its hyphen: %q", out[0].Text)
	}
}

func TestNormalizer_AllCapsRecomputedAfterNormalize(t *testing.T) {
	n := NewNormalizer()

	lines := []model.Line{{Text: "  FRANCE  ", PageIndex: 0}}
	out := n.Normalize(lines)

	if len(out) != 1 || !out[0].AllCaps {
		t.Fatalf("normalized FRANCE should be all-caps: %+v", out)
	}
}
