package model

// DelegationBlock is the contiguous region of a document attributed to
// one delegation. At most one block is open at a time; a block closes
// when the next header is detected or the document ends.
type DelegationBlock struct {
	// RawName is the delegation name exactly as first seen, with
	// multilingual variants reduced to the first slash-separated form.
	RawName string

	// Variants holds every slash-separated form from the header line,
	// all of which feed harmonization.
	Variants []string

	// Canonical is the harmonized delegation name, empty until the
	// harmonizer resolves it (and left empty on a miss).
	Canonical string

	// StartLine and EndLine are the half-open global line range
	// [StartLine, EndLine) belonging to the block.
	StartLine int
	EndLine   int

	// PageIndex is the page the header was detected on.
	PageIndex int

	// Open reports whether the block is still accepting lines.
	Open bool
}

// PersonCandidate is one person's record inside a delegation block.
// Candidate spans within a block are non-overlapping and ordered by
// line index.
type PersonCandidate struct {
	// Honorific is the title token run preceding the name ("" if none).
	Honorific string

	// NameSpan is the raw captured name text.
	NameSpan string

	// AffiliationSpan is the raw captured affiliation text.
	AffiliationSpan string

	// Block is the owning delegation block.
	Block *DelegationBlock

	// StartLine and EndLine are the half-open global line range of the
	// candidate.
	StartLine int
	EndLine   int

	// PageIndex is the page the candidate started on.
	PageIndex int

	// Flags carries per-candidate degradation markers.
	Flags FlagSet
}

// AttendeeRecord is the output unit: one structured attendee row.
// Records are created by segmentation, mutated only by name
// normalization, harmonization and deduplication, then immutable.
type AttendeeRecord struct {
	// Delegation is the canonical delegation name, empty when
	// harmonization missed.
	Delegation string `json:"delegation"`

	// DelegationRaw is the delegation name as it appeared in the source.
	DelegationRaw string `json:"delegation_raw"`

	// Honorific is the title preceding the person's name, e.g. "Mr.".
	Honorific string `json:"honorific"`

	// PersonName is the normalized "Given [Middle] Surname" form.
	PersonName string `json:"person_name"`

	// Affiliation is the captured affiliation text.
	Affiliation string `json:"affiliation"`

	// SourceDocument, PageIndex and Ordinal form the stable identity
	// downstream joins key on. Ordinal counts records within a page in
	// reading order, starting at 0.
	SourceDocument string `json:"source_document"`
	PageIndex      int    `json:"page_index"`
	Ordinal        int    `json:"ordinal"`

	// Year and HostCity are copied from the document metadata.
	Year     int    `json:"year,omitempty"`
	HostCity string `json:"host_city,omitempty"`

	// Flags lists confidence flags in stable order.
	Flags []Flag `json:"flags,omitempty"`
}

// HasFlag reports whether the record carries the given flag.
func (r *AttendeeRecord) HasFlag(f Flag) bool {
	for _, g := range r.Flags {
		if g == f {
			return true
		}
	}
	return false
}

// DedupKey returns the content identity used by duplicate collapsing:
// two records with equal keys on nearby pages are footer-bleed
// duplicates.
func (r *AttendeeRecord) DedupKey() string {
	return r.DelegationRaw + "\x1f" + r.Honorific + "\x1f" + r.PersonName + "\x1f" + r.Affiliation
}
