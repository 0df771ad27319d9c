//go:build !ocr

package ocr

import (
	"context"

	"github.com/rosterlab/rosterize/model"
)

// Tesseract is the stub used when the "ocr" build tag is not set. All
// methods fail with ErrNotEnabled.
type Tesseract struct{}

// NewTesseract returns ErrNotEnabled. Rebuild with -tags ocr to enable
// OCR support.
func NewTesseract(languages string) (*Tesseract, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op on the stub.
func (t *Tesseract) Close() error {
	return nil
}

// Recognize always fails with ErrNotEnabled.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]model.Token, error) {
	return nil, ErrNotEnabled
}
