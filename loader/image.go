package loader

import (
	"bytes"
	"fmt"
	"image"
	"os"

	// Raster formats recognized by image.DecodeConfig.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/rosterlab/rosterize/model"
)

// loadImage reads a raster scan as a single page with no text layer.
// The page keeps the raw bytes for the OCR stage.
func (l *Loader) loadImage(path string) (*model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}

	page := &model.Page{
		Index:   0,
		Image:   raw,
		Width:   float64(cfg.Width),
		Height:  float64(cfg.Height),
		Scanned: true,
		Flags:   model.NewFlagSet(),
	}
	return &model.Document{Pages: []*model.Page{page}}, nil
}
