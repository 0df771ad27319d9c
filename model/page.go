package model

// Page is one page of a roster document. Pages are created once by the
// loader, annotated by the classifier, and immutable after line
// normalization.
type Page struct {
	// Index is the 0-based page position within the document.
	Index int

	// Tokens are the positioned words on the page, in source order.
	// Empty for scanned pages until OCR has run.
	Tokens []Token

	// Image is the rasterized page content for scanned pages, in an
	// encoded image format (PNG, JPEG or TIFF). Nil for digital pages.
	Image []byte

	// Width and Height are the page dimensions in points (or pixels for
	// rasterized pages; the pipeline only uses ratios, so the unit does
	// not matter as long as it is consistent within a page).
	Width  float64
	Height float64

	// Scanned reports that the page had no usable text layer and must go
	// through OCR.
	Scanned bool

	// ColumnCount is the classifier's column estimate (1 when unknown).
	ColumnCount int

	// ColumnSplits are the x positions separating columns, in ascending
	// order; len(ColumnSplits) == ColumnCount-1. A token belongs to the
	// first column whose split exceeds its left edge.
	ColumnSplits []float64

	// ClassifierConfidence is the classifier's confidence in [0,1].
	ClassifierConfidence float64

	// Flags carries page-level degradation markers that propagate onto
	// every record emitted from this page.
	Flags FlagSet
}

// HasText reports whether the page carries any extractable tokens.
func (p *Page) HasText() bool {
	return len(p.Tokens) > 0
}

// Document is a loaded roster document: externally supplied metadata
// plus pages in document order.
type Document struct {
	Meta  DocumentMeta
	Pages []*Page
}

// DocumentMeta is the externally supplied context for one roster
// document. The pipeline never infers these values.
type DocumentMeta struct {
	// Source identifies the document (normally the file name) and is the
	// first component of the downstream join key.
	Source string

	// Year is the conference year, when known.
	Year int

	// HostCity is the conference host city, when known.
	HostCity string
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Incomplete reports whether any page failed OCR, the document-level
// signal that the output needs manual review.
func (d *Document) Incomplete() bool {
	for _, p := range d.Pages {
		if p.Flags.Has(FlagOCRIncomplete) {
			return true
		}
	}
	return false
}
