package model

// Line is one normalized text line in reading order. Lines are immutable
// after normalization; the segmentation stage only reads them.
type Line struct {
	// Text is the normalized line content.
	Text string

	// PageIndex is the 0-based page the line came from.
	PageIndex int

	// Column is the 0-based column the line was read from.
	Column int

	// BBox covers the tokens that formed the line.
	BBox BBox

	// Bold reports that the line is predominantly bold.
	Bold bool

	// Underlined reports that the line is underlined.
	Underlined bool

	// AllCaps reports that the line consists only of uppercase letters,
	// spaces and slashes, the classic delegation-header shape.
	AllCaps bool

	// Indent is the left offset from the column margin in page units.
	Indent float64

	// ParagraphStart reports that a paragraph gap (vertical whitespace
	// larger than the page's typical line spacing) precedes this line.
	ParagraphStart bool
}
