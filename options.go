package rosterize

import (
	"go.uber.org/zap"

	"github.com/rosterlab/rosterize/config"
	"github.com/rosterlab/rosterize/ocr"
)

// Layout forces the page layout instead of trusting the classifier.
type Layout int

const (
	// LayoutAuto lets the classifier decide per page.
	LayoutAuto Layout = iota

	// LayoutSingleColumn treats every page as a single column.
	LayoutSingleColumn

	// LayoutTwoColumn splits every page at the historical column
	// boundary.
	LayoutTwoColumn
)

// forcedSplitRatio places the forced two-column boundary. It matches
// the 260pt threshold the reference rosters were tuned on for a 612pt
// US Letter page.
const forcedSplitRatio = 260.0 / 612.0

// extractOptions holds configuration for an extraction run.
type extractOptions struct {
	settings config.Settings
	logger   *zap.Logger
	engine   ocr.Engine
	layout   Layout

	// Metadata overrides applied to the loaded document.
	year     int
	hostCity string
}

// defaultOptions returns the default extraction options.
func defaultOptions() extractOptions {
	return extractOptions{
		settings: config.Default(),
		layout:   LayoutAuto,
	}
}

// clone creates a copy of extractOptions. Settings is a value type, so
// a shallow copy is a deep one.
func (o extractOptions) clone() extractOptions {
	return o
}
