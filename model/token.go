package model

// Token is a single positioned word recovered from a page, either from
// the digital text layer or from OCR.
type Token struct {
	// Text is the token content with surrounding whitespace trimmed.
	Text string

	// BBox is the token position in top-down page coordinates.
	BBox BBox

	// Font is the reported font name, when the source exposes one.
	// Empty for OCR tokens.
	Font string

	// FontSize is the reported font size in points (0 when unknown).
	FontSize float64

	// Bold reports whether the token is set in a bold face. The early
	// roster layouts mark delegation headers this way.
	Bold bool

	// Underlined reports whether the token is underlined. Only some
	// sources (HTML rosters) can recover this.
	Underlined bool

	// Confidence is the recognition confidence in [0,1]. Digital text
	// tokens carry 1.0; OCR tokens carry the engine's word confidence.
	Confidence float64
}

// X returns the left edge, the coordinate the column split is keyed on.
func (t Token) X() float64 {
	return t.BBox.X
}

// Top returns the top edge, the coordinate line clustering is keyed on.
func (t Token) Top() float64 {
	return t.BBox.Y
}
