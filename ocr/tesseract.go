//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/rosterlab/rosterize/model"
)

// Tesseract is the gosseract-backed Engine. It requests word-level
// bounding boxes rather than plain text, because the column and line
// heuristics downstream need positions.
//
// A Tesseract instance is not safe for concurrent use; give each worker
// its own, and Close it to release the native client.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract engine recognizing the given
// languages ("+"-separated, e.g. "eng+fra+spa").
func NewTesseract(languages string) (*Tesseract, error) {
	client := gosseract.NewClient()

	if languages != "" {
		if err := client.SetLanguage(strings.Split(languages, "+")...); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set OCR languages %q: %w", languages, err)
		}
	}

	// Rosters are page-shaped documents; let Tesseract find the layout.
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &Tesseract{client: client}, nil
}

// Close releases the native client.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// Recognize runs OCR on encoded image data (PNG, TIFF, JPEG) and
// returns word tokens with top-down pixel coordinates and per-word
// confidence scaled to [0,1].
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]model.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := t.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	tokens := make([]model.Token, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" || box.Confidence < 0 {
			continue
		}
		tokens = append(tokens, model.Token{
			Text: word,
			BBox: model.NewBBox(
				float64(box.Box.Min.X),
				float64(box.Box.Min.Y),
				float64(box.Box.Dx()),
				float64(box.Box.Dy()),
			),
			Confidence: box.Confidence / 100.0,
		})
	}

	return tokens, nil
}
