// Package config holds the tunable parameters of the extraction
// pipeline. Every heuristic threshold is configuration, not a literal at
// the call site, so the same pipeline can be calibrated against labeled
// samples from different roster eras.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RuleEra selects the segmentation rule set for a roster generation.
type RuleEra string

const (
	// EraDefault covers the all-caps-header layouts used by most rosters.
	EraDefault RuleEra = "default"

	// EraEarly covers the earliest single-column layouts, where
	// delegation headers are bold rather than all-caps.
	EraEarly RuleEra = "early"
)

// Settings is the full pipeline configuration.
type Settings struct {
	// TextDensityThreshold is the minimum ratio of text-layer glyph area
	// to page area for a page to count as digital text. Below it the
	// page is treated as scanned.
	TextDensityThreshold float64 `mapstructure:"text_density_threshold"`

	// MinGapWidthRatio is the minimum whitespace valley width, as a
	// fraction of page width, to split columns on.
	MinGapWidthRatio float64 `mapstructure:"min_gap_width_ratio"`

	// MinGapHeightRatio is the minimum vertical extent of a column gap,
	// as a fraction of page height.
	MinGapHeightRatio float64 `mapstructure:"min_gap_height_ratio"`

	// MinColumnMass is the minimum fraction of tokens each side of a
	// candidate split must carry. A lopsided split is not a column gap.
	MinColumnMass float64 `mapstructure:"min_column_mass"`

	// MaxColumns bounds the column count estimate.
	MaxColumns int `mapstructure:"max_columns"`

	// ClassifierConfidenceThreshold marks pages below it as uncertain;
	// uncertain pages take the single-column fallback path.
	ClassifierConfidenceThreshold float64 `mapstructure:"classifier_confidence_threshold"`

	// YTolerance is the vertical distance, in page units, within which
	// tokens belong to the same line.
	YTolerance float64 `mapstructure:"y_tolerance"`

	// ParagraphGapFactor multiplies the median line gap; a larger gap
	// starts a new paragraph block.
	ParagraphGapFactor float64 `mapstructure:"paragraph_gap_factor"`

	// MinCapsRun is the minimum length of an all-caps run for a line to
	// qualify as a delegation header.
	MinCapsRun int `mapstructure:"min_caps_run"`

	// DedupWindow is the maximum page distance between records collapsed
	// as footer-bleed duplicates.
	DedupWindow int `mapstructure:"dedup_window"`

	// RuleEra selects the segmentation rule set.
	RuleEra RuleEra `mapstructure:"rule_era"`

	// DelegationTablePath points at a YAML variant table merged over the
	// built-in one. Empty means built-in only.
	DelegationTablePath string `mapstructure:"delegation_table_path"`

	// FuzzyHarmonization enables the bounded fuzzy fallback for
	// delegation strings the variant table misses.
	FuzzyHarmonization bool `mapstructure:"fuzzy_harmonization"`

	// FuzzyMaxDistance is the maximum Levenshtein distance the fuzzy
	// fallback will accept.
	FuzzyMaxDistance int `mapstructure:"fuzzy_max_distance"`

	// Workers bounds the page-parallel stage. Zero means one worker per
	// CPU.
	Workers int `mapstructure:"workers"`

	// OCR configures the OCR adapter.
	OCR OCRSettings `mapstructure:"ocr"`
}

// OCRSettings configures the OCR engine and its retry policy.
type OCRSettings struct {
	// Languages is the Tesseract language string, e.g. "eng+fra+spa".
	Languages string `mapstructure:"languages"`

	// DPI is the rasterization density for scanned pages.
	DPI int `mapstructure:"dpi"`

	// MaxRetries bounds retry attempts after the first call.
	MaxRetries int `mapstructure:"max_retries"`

	// InitialDelay is the first backoff delay.
	InitialDelay time.Duration `mapstructure:"initial_delay"`

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration `mapstructure:"max_delay"`

	// BackoffFactor is the exponential growth factor.
	BackoffFactor float64 `mapstructure:"backoff_factor"`

	// CallTimeout is the hard per-call budget; a stuck engine call never
	// costs more than this.
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

// Default returns the settings tuned against the reference roster
// sample. The column split ratio corresponds to the historical 260pt
// threshold on a 612pt US Letter page.
func Default() Settings {
	return Settings{
		TextDensityThreshold:          0.001,
		MinGapWidthRatio:              0.03,
		MinGapHeightRatio:             0.5,
		MinColumnMass:                 0.25,
		MaxColumns:                    3,
		ClassifierConfidenceThreshold: 0.5,
		YTolerance:                    3.0,
		ParagraphGapFactor:            1.5,
		MinCapsRun:                    4,
		DedupWindow:                   1,
		RuleEra:                       EraDefault,
		FuzzyHarmonization:            false,
		FuzzyMaxDistance:              2,
		Workers:                       0,
		OCR: OCRSettings{
			Languages:     "eng",
			DPI:           300,
			MaxRetries:    3,
			InitialDelay:  500 * time.Millisecond,
			MaxDelay:      10 * time.Second,
			BackoffFactor: 2.0,
			CallTimeout:   60 * time.Second,
		},
	}
}

// Load reads settings from a file (yaml, toml or json, by extension),
// applying environment overrides with the ROSTERIZE_ prefix. A missing
// path returns the defaults.
func Load(path string) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("ROSTERIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	setDefaults(v, defaults)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return defaults, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return defaults, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return defaults, err
	}

	return s, nil
}

// setDefaults registers defaults so unset keys resolve sensibly.
func setDefaults(v *viper.Viper, s Settings) {
	v.SetDefault("text_density_threshold", s.TextDensityThreshold)
	v.SetDefault("min_gap_width_ratio", s.MinGapWidthRatio)
	v.SetDefault("min_gap_height_ratio", s.MinGapHeightRatio)
	v.SetDefault("min_column_mass", s.MinColumnMass)
	v.SetDefault("max_columns", s.MaxColumns)
	v.SetDefault("classifier_confidence_threshold", s.ClassifierConfidenceThreshold)
	v.SetDefault("y_tolerance", s.YTolerance)
	v.SetDefault("paragraph_gap_factor", s.ParagraphGapFactor)
	v.SetDefault("min_caps_run", s.MinCapsRun)
	v.SetDefault("dedup_window", s.DedupWindow)
	v.SetDefault("rule_era", string(s.RuleEra))
	v.SetDefault("delegation_table_path", s.DelegationTablePath)
	v.SetDefault("fuzzy_harmonization", s.FuzzyHarmonization)
	v.SetDefault("fuzzy_max_distance", s.FuzzyMaxDistance)
	v.SetDefault("workers", s.Workers)
	v.SetDefault("ocr.languages", s.OCR.Languages)
	v.SetDefault("ocr.dpi", s.OCR.DPI)
	v.SetDefault("ocr.max_retries", s.OCR.MaxRetries)
	v.SetDefault("ocr.initial_delay", s.OCR.InitialDelay)
	v.SetDefault("ocr.max_delay", s.OCR.MaxDelay)
	v.SetDefault("ocr.backoff_factor", s.OCR.BackoffFactor)
	v.SetDefault("ocr.call_timeout", s.OCR.CallTimeout)
}

// Validate rejects settings that would make the heuristics degenerate.
func (s Settings) Validate() error {
	if s.MinGapWidthRatio <= 0 || s.MinGapWidthRatio >= 1 {
		return fmt.Errorf("min_gap_width_ratio must be in (0,1), got %v", s.MinGapWidthRatio)
	}
	if s.MinGapHeightRatio <= 0 || s.MinGapHeightRatio > 1 {
		return fmt.Errorf("min_gap_height_ratio must be in (0,1], got %v", s.MinGapHeightRatio)
	}
	if s.MinColumnMass < 0 || s.MinColumnMass > 0.5 {
		return fmt.Errorf("min_column_mass must be in [0,0.5], got %v", s.MinColumnMass)
	}
	if s.MaxColumns < 1 {
		return fmt.Errorf("max_columns must be at least 1, got %d", s.MaxColumns)
	}
	if s.YTolerance <= 0 {
		return fmt.Errorf("y_tolerance must be positive, got %v", s.YTolerance)
	}
	if s.ParagraphGapFactor <= 1 {
		return fmt.Errorf("paragraph_gap_factor must exceed 1, got %v", s.ParagraphGapFactor)
	}
	if s.MinCapsRun < 1 {
		return fmt.Errorf("min_caps_run must be at least 1, got %d", s.MinCapsRun)
	}
	if s.DedupWindow < 0 {
		return fmt.Errorf("dedup_window must not be negative, got %d", s.DedupWindow)
	}
	switch s.RuleEra {
	case EraDefault, EraEarly:
	default:
		return fmt.Errorf("unknown rule_era %q", s.RuleEra)
	}
	if s.OCR.MaxRetries < 0 {
		return fmt.Errorf("ocr.max_retries must not be negative, got %d", s.OCR.MaxRetries)
	}
	if s.OCR.BackoffFactor < 1 {
		return fmt.Errorf("ocr.backoff_factor must be at least 1, got %v", s.OCR.BackoffFactor)
	}
	return nil
}
