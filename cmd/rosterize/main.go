// Command rosterize extracts structured attendee records from
// conference roster documents.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterlab/rosterize"
	"github.com/rosterlab/rosterize/config"
	"github.com/rosterlab/rosterize/internal/logging"
	"github.com/rosterlab/rosterize/ocr"
	"github.com/rosterlab/rosterize/output"
)

type extractFlags struct {
	configPath string
	outPath    string
	format     string
	layout     string
	year       int
	city       string
	workers    int
	era        string
	useOCR     bool
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rosterize",
		Short:         "Extract attendee records from conference rosters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExtractCmd())
	return root
}

func newExtractCmd() *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract <document>",
		Short: "Extract records from one roster document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "settings file (yaml, toml or json)")
	cmd.Flags().StringVarP(&flags.outPath, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&flags.format, "format", "csv", "output format: csv or jsonl")
	cmd.Flags().StringVar(&flags.layout, "layout", "auto", "page layout: auto, one or two")
	cmd.Flags().IntVar(&flags.year, "year", 0, "meeting year stamped onto records")
	cmd.Flags().StringVar(&flags.city, "city", "", "host city stamped onto records")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "page workers (0 = one per CPU)")
	cmd.Flags().StringVar(&flags.era, "era", "", "segmentation rule era: default or early")
	cmd.Flags().BoolVar(&flags.useOCR, "ocr", false, "recognize scanned pages with Tesseract")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "verbose logging")

	return cmd
}

func runExtract(cmd *cobra.Command, path string, flags extractFlags) error {
	log, err := logging.New(flags.debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	settings, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.era != "" {
		settings.RuleEra = config.RuleEra(flags.era)
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	ext := rosterize.Open(path).
		WithSettings(settings).
		WithLogger(log).
		WithMeta(flags.year, flags.city).
		Workers(flags.workers)

	layout, err := parseLayout(flags.layout)
	if err != nil {
		return err
	}
	ext = ext.ForceLayout(layout)

	if flags.useOCR {
		engine, err := ocr.NewTesseract(settings.OCR.Languages)
		if err != nil {
			if errors.Is(err, ocr.ErrNotEnabled) {
				log.Warn("ocr support not compiled in, scanned pages will be flagged")
			} else {
				return fmt.Errorf("starting ocr engine: %w", err)
			}
		} else {
			defer func() { _ = engine.Close() }()
			ext = ext.WithOCR(engine)
		}
	}

	res, err := ext.Extract(cmd.Context())
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(flags.outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	switch strings.ToLower(flags.format) {
	case "csv":
		err = output.WriteCSV(out, res.Records)
	case "jsonl":
		err = output.WriteJSONL(out, res.Records)
	default:
		return fmt.Errorf("unknown format %q (want csv or jsonl)", flags.format)
	}
	if err != nil {
		return err
	}

	log.Info("run summary",
		zap.Int("pages", len(res.Document.Pages)),
		zap.Int("records", len(res.Records)),
		zap.Int("flagged", res.Flagged()))
	return nil
}

func parseLayout(s string) (rosterize.Layout, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return rosterize.LayoutAuto, nil
	case "one", "single":
		return rosterize.LayoutSingleColumn, nil
	case "two", "double":
		return rosterize.LayoutTwoColumn, nil
	default:
		return rosterize.LayoutAuto, fmt.Errorf("unknown layout %q (want auto, one or two)", s)
	}
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
