//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewTesseractWithoutTagReturnsNotEnabled(t *testing.T) {
	engine, err := NewTesseract("eng")

	if !errors.Is(err, ErrNotEnabled) {
		t.Fatalf("expected ErrNotEnabled, got %v", err)
	}
	if engine != nil {
		t.Error("stub constructor should not return an engine")
	}
}
