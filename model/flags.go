package model

import "sort"

// Flag marks a degraded or uncertain extraction outcome on a page or
// record. Flags never remove data; they route it to manual review.
type Flag string

// The flag vocabulary. Downstream consumers key on these exact strings.
const (
	// FlagUncertainClassification marks pages the classifier could not
	// confidently type; they are processed via the single-column fallback.
	FlagUncertainClassification Flag = "uncertain-classification"

	// FlagAmbiguousBoundary marks records whose span boundaries were
	// guessed because no segmentation cue fired.
	FlagAmbiguousBoundary Flag = "ambiguous-boundary"

	// FlagUnresolvedDelegation marks records whose raw delegation string
	// has no canonical mapping.
	FlagUnresolvedDelegation Flag = "unresolved-delegation"

	// FlagOCRIncomplete marks pages (and their records) where the OCR
	// engine failed after all retries.
	FlagOCRIncomplete Flag = "ocr-incomplete"

	// FlagUnnormalizedName marks records whose name span matched no
	// normalization rule and passed through unchanged.
	FlagUnnormalizedName Flag = "unnormalized-name"
)

// FlagSet is a set of confidence flags.
type FlagSet map[Flag]struct{}

// NewFlagSet creates a set containing the given flags.
func NewFlagSet(flags ...Flag) FlagSet {
	s := make(FlagSet, len(flags))
	for _, f := range flags {
		s[f] = struct{}{}
	}
	return s
}

// Set adds a flag to the set.
func (s FlagSet) Set(f Flag) {
	s[f] = struct{}{}
}

// Has reports whether the flag is present.
func (s FlagSet) Has(f Flag) bool {
	_, ok := s[f]
	return ok
}

// Merge adds all flags from other.
func (s FlagSet) Merge(other FlagSet) {
	for f := range other {
		s[f] = struct{}{}
	}
}

// Clone returns an independent copy.
func (s FlagSet) Clone() FlagSet {
	c := make(FlagSet, len(s))
	for f := range s {
		c[f] = struct{}{}
	}
	return c
}

// List returns the flags in a stable sorted order, for serialization.
func (s FlagSet) List() []Flag {
	out := make([]Flag, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
