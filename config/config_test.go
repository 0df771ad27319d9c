package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default settings must validate: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	def := Default()
	if s.YTolerance != def.YTolerance {
		t.Errorf("y_tolerance = %v, want %v", s.YTolerance, def.YTolerance)
	}
	if s.OCR.MaxRetries != def.OCR.MaxRetries {
		t.Errorf("ocr.max_retries = %d, want %d", s.OCR.MaxRetries, def.OCR.MaxRetries)
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rosterize.yaml")
	content := []byte("y_tolerance: 5.0\nrule_era: early\nocr:\n  max_retries: 1\n  call_timeout: 5s\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.YTolerance != 5.0 {
		t.Errorf("y_tolerance = %v, want 5.0", s.YTolerance)
	}
	if s.RuleEra != EraEarly {
		t.Errorf("rule_era = %q, want early", s.RuleEra)
	}
	if s.OCR.MaxRetries != 1 {
		t.Errorf("ocr.max_retries = %d, want 1", s.OCR.MaxRetries)
	}
	if s.OCR.CallTimeout != 5*time.Second {
		t.Errorf("ocr.call_timeout = %v, want 5s", s.OCR.CallTimeout)
	}
	// Unset keys keep their defaults.
	if s.ParagraphGapFactor != Default().ParagraphGapFactor {
		t.Errorf("paragraph_gap_factor = %v, want default", s.ParagraphGapFactor)
	}
}

func TestValidateRejectsDegenerateSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero gap ratio", func(s *Settings) { s.MinGapWidthRatio = 0 }},
		{"gap ratio above 1", func(s *Settings) { s.MinGapWidthRatio = 1.5 }},
		{"zero y tolerance", func(s *Settings) { s.YTolerance = 0 }},
		{"paragraph factor 1", func(s *Settings) { s.ParagraphGapFactor = 1 }},
		{"unknown era", func(s *Settings) { s.RuleEra = "victorian" }},
		{"negative retries", func(s *Settings) { s.OCR.MaxRetries = -1 }},
		{"backoff below 1", func(s *Settings) { s.OCR.BackoffFactor = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
