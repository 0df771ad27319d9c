// Package rosterize provides a fluent API for extracting structured
// attendee records from conference roster documents.
//
// Basic usage:
//
//	records, err := rosterize.Open("cop12.pdf").Records(ctx)
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	records, err := rosterize.Open("cop12.pdf").
//	    WithMeta(2002, "Santiago").
//	    Workers(4).
//	    ForceLayout(rosterize.LayoutTwoColumn).
//	    Records(ctx)
//
// For advanced use cases the lower-level packages (loader, classify,
// layout, segment, names, delegations) are also available.
package rosterize

import (
	"github.com/rosterlab/rosterize/model"
)

// Open prepares an Extractor for the document at filename. The format
// is chosen by extension; see the loader package for the supported set.
// No I/O happens until a terminal operation runs.
//
// Example:
//
//	records, err := rosterize.Open("cop12.pdf").Records(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument creates an Extractor over an already-loaded document.
// This is useful when pages come from a custom source or when the same
// document is extracted twice with different settings.
func FromDocument(doc *model.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	records := rosterize.Must(rosterize.Open("cop12.pdf").Records(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
