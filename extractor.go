package rosterize

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rosterlab/rosterize/classify"
	"github.com/rosterlab/rosterize/config"
	"github.com/rosterlab/rosterize/dedupe"
	"github.com/rosterlab/rosterize/delegations"
	"github.com/rosterlab/rosterize/layout"
	"github.com/rosterlab/rosterize/loader"
	"github.com/rosterlab/rosterize/model"
	"github.com/rosterlab/rosterize/names"
	"github.com/rosterlab/rosterize/ocr"
	"github.com/rosterlab/rosterize/segment"
)

// Result is the outcome of a full extraction run.
type Result struct {
	// Records are the deduplicated attendee records in reading order.
	Records []*model.AttendeeRecord

	// Document is the processed document, with per-page classification
	// and flags filled in.
	Document *model.Document
}

// Flagged counts records carrying at least one confidence flag.
func (r *Result) Flagged() int {
	n := 0
	for _, rec := range r.Records {
		if len(rec.Flags) > 0 {
			n++
		}
	}
	return n
}

// Extractor provides a fluent interface for roster extraction. Each
// configuration method returns a new Extractor instance, making chains
// safe to fork and reuse.
type Extractor struct {
	// Source: exactly one of filename or doc is set.
	filename string
	doc      *model.Document

	options extractOptions

	// Accumulated error (fail-fast).
	err error
}

// clone creates a copy of the Extractor so chain methods never mutate
// their receiver.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		doc:      e.doc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// WithSettings replaces the pipeline settings. Invalid settings fail
// the chain at the terminal operation.
func (e *Extractor) WithSettings(s config.Settings) *Extractor {
	newExt := e.clone()
	if err := s.Validate(); err != nil {
		newExt.err = err
		return newExt
	}
	newExt.options.settings = s
	return newExt
}

// WithLogger attaches a structured logger to the run.
func (e *Extractor) WithLogger(log *zap.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = log
	return newExt
}

// WithOCR attaches a recognition engine for scanned pages. Without one,
// scanned pages come back flagged ocr-incomplete.
func (e *Extractor) WithOCR(engine ocr.Engine) *Extractor {
	newExt := e.clone()
	newExt.options.engine = engine
	return newExt
}

// Workers bounds the page-parallel stage. Zero or less means one worker
// per CPU.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.settings.Workers = n
	return newExt
}

// ForceLayout overrides the classifier's column estimate on every page.
func (e *Extractor) ForceLayout(l Layout) *Extractor {
	newExt := e.clone()
	newExt.options.layout = l
	return newExt
}

// WithMeta sets the meeting year and host city stamped onto every
// record.
func (e *Extractor) WithMeta(year int, hostCity string) *Extractor {
	newExt := e.clone()
	newExt.options.year = year
	newExt.options.hostCity = hostCity
	return newExt
}

// Records runs the pipeline and returns the attendee records.
func (e *Extractor) Records(ctx context.Context) ([]*model.AttendeeRecord, error) {
	res, err := e.Extract(ctx)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Extract runs the full pipeline: load, per-page classification and
// line assembly (in parallel), then a sequential reduce through
// segmentation, name normalization, harmonization and deduplication.
func (e *Extractor) Extract(ctx context.Context) (*Result, error) {
	if e.err != nil {
		return nil, e.err
	}

	log := e.options.logger
	if log == nil {
		log = zap.NewNop()
	}

	doc := e.doc
	if doc == nil {
		var err error
		doc, err = loader.New(log).Open(e.filename)
		if err != nil {
			return nil, err
		}
	}
	if e.options.year != 0 {
		doc.Meta.Year = e.options.year
	}
	if e.options.hostCity != "" {
		doc.Meta.HostCity = e.options.hostCity
	}

	pageLines, err := e.processPages(ctx, doc, log)
	if err != nil {
		return nil, err
	}

	var lines []model.Line
	for _, pl := range pageLines {
		lines = append(lines, pl...)
	}

	records, err := e.reduce(doc, lines, log)
	if err != nil {
		return nil, err
	}

	log.Info("extraction complete",
		zap.String("source", doc.Meta.Source),
		zap.Int("pages", len(doc.Pages)),
		zap.Int("records", len(records)))

	return &Result{Records: records, Document: doc}, nil
}

// processPages runs the per-page stage concurrently. Results land in an
// index-addressed slice, so reading order survives any completion
// order.
func (e *Extractor) processPages(ctx context.Context, doc *model.Document, log *zap.Logger) ([][]model.Line, error) {
	settings := e.options.settings

	classifier := classify.NewClassifierWithConfig(classify.Config{
		TextDensityThreshold: settings.TextDensityThreshold,
		MinGapWidthRatio:     settings.MinGapWidthRatio,
		MinGapHeightRatio:    settings.MinGapHeightRatio,
		MinColumnMass:        settings.MinColumnMass,
		MaxColumns:           settings.MaxColumns,
		ConfidenceThreshold:  settings.ClassifierConfidenceThreshold,
	})

	lineCfg := layout.DefaultConfig()
	lineCfg.YTolerance = settings.YTolerance
	lineCfg.ParagraphGapFactor = settings.ParagraphGapFactor
	assembler := layout.NewSegmenterWithConfig(lineCfg)
	normalizer := layout.NewNormalizer()

	var retrier *ocr.Retrier
	if e.options.engine != nil {
		retrier = ocr.NewRetrier(e.options.engine, ocr.RetryPolicy{
			MaxRetries:    settings.OCR.MaxRetries,
			InitialDelay:  settings.OCR.InitialDelay,
			MaxDelay:      settings.OCR.MaxDelay,
			BackoffFactor: settings.OCR.BackoffFactor,
			CallTimeout:   settings.OCR.CallTimeout,
		}, log)
	}

	workers := settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pageLines := make([][]model.Line, len(doc.Pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, page := range doc.Pages {
		i, page := i, page
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if page.Flags == nil {
				page.Flags = model.NewFlagSet()
			}
			if len(page.Tokens) == 0 {
				e.recognize(gctx, page, retrier, log)
			}

			classifier.Classify(page)
			forceLayout(page, e.options.layout)
			pageLines[i] = normalizer.Normalize(assembler.Lines(page))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing pages: %w", err)
	}
	return pageLines, nil
}

// recognize fills a scanned page's tokens via OCR. Any failure leaves
// the page empty and flagged; extraction continues without it.
func (e *Extractor) recognize(ctx context.Context, page *model.Page, retrier *ocr.Retrier, log *zap.Logger) {
	if retrier == nil || len(page.Image) == 0 {
		page.Flags.Set(model.FlagOCRIncomplete)
		return
	}

	tokens, err := retrier.Recognize(ctx, page.Image)
	if err != nil {
		log.Warn("ocr failed for page",
			zap.Int("page", page.Index),
			zap.Error(err))
		page.Flags.Set(model.FlagOCRIncomplete)
		return
	}
	page.Tokens = tokens
}

// forceLayout overrides the classifier's estimate when the caller asked
// for a fixed layout.
func forceLayout(page *model.Page, l Layout) {
	switch l {
	case LayoutSingleColumn:
		page.ColumnCount = 1
		page.ColumnSplits = nil
	case LayoutTwoColumn:
		page.ColumnCount = 2
		page.ColumnSplits = []float64{page.Width * forcedSplitRatio}
	}
}

// reduce runs the order-sensitive tail of the pipeline sequentially.
func (e *Extractor) reduce(doc *model.Document, lines []model.Line, log *zap.Logger) ([]*model.AttendeeRecord, error) {
	settings := e.options.settings

	var rules segment.RuleSet
	switch settings.RuleEra {
	case config.EraEarly:
		rules = segment.EarlyRules(settings.MinCapsRun)
	default:
		rules = segment.DefaultRules(settings.MinCapsRun)
	}
	segmented := segment.New(rules).Segment(lines)

	table, err := delegations.DefaultTable()
	if err != nil {
		return nil, fmt.Errorf("loading delegation table: %w", err)
	}
	if settings.DelegationTablePath != "" {
		extra, err := delegations.LoadTable(settings.DelegationTablePath)
		if err != nil {
			return nil, fmt.Errorf("loading delegation table %s: %w", settings.DelegationTablePath, err)
		}
		table = table.Merge(extra)
	}
	harmonizer := delegations.NewHarmonizer(table, delegations.Config{
		Fuzzy:            settings.FuzzyHarmonization,
		FuzzyMaxDistance: settings.FuzzyMaxDistance,
	})
	nameNormalizer := names.NewNormalizer()

	ordinals := make(map[int]int)
	records := make([]*model.AttendeeRecord, 0, len(segmented.Candidates))
	for _, c := range segmented.Candidates {
		flags := c.Flags.Clone()

		rec := &model.AttendeeRecord{
			DelegationRaw:  c.Block.RawName,
			Honorific:      c.Honorific,
			Affiliation:    segment.FirstAffiliationVariant(c.AffiliationSpan),
			SourceDocument: doc.Meta.Source,
			PageIndex:      c.PageIndex,
			Year:           doc.Meta.Year,
			HostCity:       doc.Meta.HostCity,
		}

		if canonical, ok := harmonizer.ResolveAny(c.Block.Variants); ok {
			rec.Delegation = canonical
			c.Block.Canonical = canonical
		} else {
			flags.Set(model.FlagUnresolvedDelegation)
		}

		name, ok := nameNormalizer.Normalize(c.NameSpan)
		rec.PersonName = name
		if !ok {
			flags.Set(model.FlagUnnormalizedName)
		}

		if c.PageIndex >= 0 && c.PageIndex < len(doc.Pages) {
			flags.Merge(doc.Pages[c.PageIndex].Flags)
		}
		rec.Flags = flags.List()

		rec.Ordinal = ordinals[c.PageIndex]
		ordinals[c.PageIndex]++

		records = append(records, rec)
	}

	before := len(records)
	records = dedupe.New(settings.DedupWindow).Collapse(records)
	if dropped := before - len(records); dropped > 0 {
		log.Debug("footer-bleed duplicates collapsed", zap.Int("dropped", dropped))
	}
	return records, nil
}
