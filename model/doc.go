// Package model defines the data types shared across the extraction
// pipeline: positioned tokens and pages on the input side, normalized
// lines in the middle, and delegation blocks, person candidates and
// attendee records on the output side.
//
// All geometry uses top-down page coordinates (Y grows toward the bottom
// of the page), matching OCR output; loaders convert from bottom-up PDF
// coordinates at the boundary.
package model
