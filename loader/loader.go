// Package loader reads roster documents into the geometric page model.
// PDFs keep their native token positions; HTML and scanned images are
// mapped onto synthetic or empty pages so the rest of the pipeline
// sees one shape.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rosterlab/rosterize/model"
)

// ErrDocumentUnreadable wraps any failure to open or parse a source
// document.
var ErrDocumentUnreadable = errors.New("document unreadable")

// Loader opens source documents by file extension.
type Loader struct {
	log *zap.Logger
}

// New creates a loader. A nil logger disables logging.
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Open reads the document at path. The format is chosen by extension:
// .pdf, .html/.htm, and the raster formats .png/.jpg/.jpeg/.tif/.tiff.
func (l *Loader) Open(path string) (*model.Document, error) {
	var (
		doc *model.Document
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		doc, err = l.loadPDF(path)
	case ".html", ".htm":
		doc, err = l.loadHTML(path)
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		doc, err = l.loadImage(path)
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrDocumentUnreadable, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentUnreadable, path, err)
	}

	doc.Meta.Source = filepath.Base(path)
	l.log.Debug("document loaded",
		zap.String("source", doc.Meta.Source),
		zap.Int("pages", len(doc.Pages)))
	return doc, nil
}
