package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/rosterlab/rosterize/model"
)

func sampleRecords() []*model.AttendeeRecord {
	return []*model.AttendeeRecord{
		{
			Delegation:     "Belgium",
			DelegationRaw:  "BELGIUM",
			Honorific:      "Mr.",
			PersonName:     "John A. Smith",
			Affiliation:    "Ministry of Environment",
			SourceDocument: "cop12.pdf",
			PageIndex:      0,
			Ordinal:        0,
			Year:           2002,
			HostCity:       "Santiago",
		},
		{
			DelegationRaw: "UNKNOWN BODY",
			Honorific:     "Ms.",
			PersonName:    "Jane Doe",
			PageIndex:     3,
			Ordinal:       1,
			Flags:         []model.Flag{model.FlagUnresolvedDelegation, model.FlagUnnormalizedName},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "delegation" || rows[0][10] != "flags" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Belgium" || rows[1][3] != "John A. Smith" || rows[1][8] != "2002" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][8] != "" {
		t.Errorf("zero year must serialize empty, got %q", rows[2][8])
	}
	if rows[2][10] != "unresolved-delegation;unnormalized-name" {
		t.Errorf("flags column = %q", rows[2][10])
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	var rec model.AttendeeRecord
	if err := sonic.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decoding first line: %v", err)
	}
	if rec.Delegation != "Belgium" || rec.Ordinal != 0 {
		t.Errorf("unexpected record: %+v", rec)
	}

	if err := sonic.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("decoding second line: %v", err)
	}
	if !rec.HasFlag(model.FlagUnresolvedDelegation) {
		t.Error("flags lost in round trip")
	}
	if strings.Contains(lines[1], `"year"`) {
		t.Error("zero year should be omitted")
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("empty input should yield only the header row, got %d lines", got)
	}
}
