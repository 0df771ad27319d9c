// Package output serializes attendee records to CSV and JSON Lines.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/rosterlab/rosterize/model"
)

// csvHeader is the fixed column order. Downstream loaders key on these
// names; do not reorder.
var csvHeader = []string{
	"delegation",
	"delegation_raw",
	"honorific",
	"person_name",
	"affiliation",
	"source_document",
	"page_index",
	"ordinal",
	"year",
	"host_city",
	"flags",
}

// WriteCSV writes the records as CSV with a header row. Flags are
// joined with semicolons inside a single column.
func WriteCSV(w io.Writer, records []*model.AttendeeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	row := make([]string, len(csvHeader))
	for i, rec := range records {
		row[0] = rec.Delegation
		row[1] = rec.DelegationRaw
		row[2] = rec.Honorific
		row[3] = rec.PersonName
		row[4] = rec.Affiliation
		row[5] = rec.SourceDocument
		row[6] = strconv.Itoa(rec.PageIndex)
		row[7] = strconv.Itoa(rec.Ordinal)
		row[8] = yearString(rec.Year)
		row[9] = rec.HostCity
		row[10] = joinFlags(rec.Flags)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv record %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteJSONL writes one JSON object per line, in record order.
func WriteJSONL(w io.Writer, records []*model.AttendeeRecord) error {
	for i, rec := range records {
		data, err := sonic.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	return nil
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func joinFlags(flags []model.Flag) string {
	if len(flags) == 0 {
		return ""
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ";")
}
