package dedupe

import (
	"testing"

	"github.com/rosterlab/rosterize/model"
)

func record(name, delegation string, page int) *model.AttendeeRecord {
	return &model.AttendeeRecord{
		DelegationRaw: delegation,
		Honorific:     "Mr.",
		PersonName:    name,
		PageIndex:     page,
	}
}

func TestCollapseAdjacentPages(t *testing.T) {
	in := []*model.AttendeeRecord{
		record("Jean Dupont", "FRANCE", 0),
		record("Claire Martin", "FRANCE", 0),
		record("Jean Dupont", "FRANCE", 1), // footer bleed
		record("Ana Costa", "PORTUGAL", 1),
	}

	out := New(1).Collapse(in)

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].PageIndex != 0 || out[0].PersonName != "Jean Dupont" {
		t.Errorf("earliest occurrence must survive, got %+v", out[0])
	}
	for _, r := range out {
		if r.PersonName == "Jean Dupont" && r.PageIndex == 1 {
			t.Error("page 1 duplicate survived")
		}
	}
}

func TestCollapseWindow(t *testing.T) {
	in := []*model.AttendeeRecord{
		record("Jean Dupont", "FRANCE", 0),
		record("Jean Dupont", "FRANCE", 3),
	}

	// Pages 0 and 3 are farther apart than the window; both are real.
	out := New(1).Collapse(in)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2 (distance exceeds window)", len(out))
	}

	out = New(3).Collapse(in)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1 with a wider window", len(out))
	}
}

func TestCollapseChainedRestatements(t *testing.T) {
	// A long delegation restated on every page: all restatements
	// collapse onto the first even though page 0 and page 2 are outside
	// the window themselves.
	in := []*model.AttendeeRecord{
		record("Jean Dupont", "FRANCE", 0),
		record("Jean Dupont", "FRANCE", 1),
		record("Jean Dupont", "FRANCE", 2),
	}

	out := New(1).Collapse(in)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].PageIndex != 0 {
		t.Errorf("PageIndex = %d, want 0", out[0].PageIndex)
	}
}

func TestCollapseDistinguishesContent(t *testing.T) {
	a := record("Jean Dupont", "FRANCE", 0)
	b := record("Jean Dupont", "FRANCE", 0)
	b.Affiliation = "Ministère de l'Environnement"

	out := New(1).Collapse([]*model.AttendeeRecord{a, b})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2 (different affiliations are different records)", len(out))
	}
}

func TestCollapseIdempotent(t *testing.T) {
	in := []*model.AttendeeRecord{
		record("Jean Dupont", "FRANCE", 0),
		record("Jean Dupont", "FRANCE", 1),
		record("Ana Costa", "PORTUGAL", 2),
	}

	d := New(1)
	once := d.Collapse(in)
	twice := d.Collapse(once)
	if len(once) != len(twice) {
		t.Fatalf("collapse not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("record %d changed on second pass", i)
		}
	}
}
