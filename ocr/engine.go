// Package ocr converts scanned page images into positioned text tokens.
//
// The Tesseract-backed engine requires the "ocr" build tag and a system
// Tesseract installation. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag, NewTesseract returns ErrNotEnabled and scanned pages
// surface as ocr-incomplete instead of failing the document.
package ocr

import (
	"context"
	"errors"

	"github.com/rosterlab/rosterize/model"
)

// ErrNotEnabled is returned when OCR is requested but support was not
// compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// ErrEngineUnavailable is returned when the engine keeps failing after
// all retries. The page is marked incomplete and the document continues.
var ErrEngineUnavailable = errors.New("OCR engine unavailable after retries")

// Engine recognizes one page image and returns positioned word tokens
// in top-down page coordinates. Implementations may block; callers
// bound them with the context.
type Engine interface {
	Recognize(ctx context.Context, image []byte) ([]model.Token, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, image []byte) ([]model.Token, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, image []byte) ([]model.Token, error) {
	return f(ctx, image)
}
