// Package delegations maps raw delegation strings, with their
// multilingual variants, historical names and recurring typos, onto
// canonical delegation names. Lookup is many-to-one and never guesses:
// an unmatched raw string keeps its raw form and is flagged for manual
// review instead of being bent to the nearest canonical name.
package delegations

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Config holds configuration for harmonization.
type Config struct {
	// Fuzzy enables the bounded fuzzy fallback for raw strings the
	// variant table misses (OCR typos, mostly).
	Fuzzy bool

	// FuzzyMaxDistance is the maximum Levenshtein distance the fallback
	// accepts. A tie between two canonical names is treated as a miss.
	FuzzyMaxDistance int
}

// DefaultConfig returns sensible default configuration. Fuzzy matching
// is off by default: a wrong canonical name is worse than an
// unresolved one.
func DefaultConfig() Config {
	return Config{Fuzzy: false, FuzzyMaxDistance: 2}
}

// Harmonizer resolves raw delegation strings to canonical names.
type Harmonizer struct {
	config Config
	byKey  map[string]string
	keys   []string
}

// NewHarmonizer creates a harmonizer over the given table.
func NewHarmonizer(table Table, config Config) *Harmonizer {
	h := &Harmonizer{
		config: config,
		byKey:  make(map[string]string),
	}

	for _, entry := range table.Delegations {
		h.add(entry.Canonical, entry.Canonical)
		for _, v := range entry.Variants {
			h.add(v, entry.Canonical)
		}
	}

	return h
}

func (h *Harmonizer) add(variant, canonical string) {
	key := Normalize(variant)
	if key == "" {
		return
	}
	if _, exists := h.byKey[key]; !exists {
		h.keys = append(h.keys, key)
	}
	h.byKey[key] = canonical
}

// Resolve maps a raw delegation string to its canonical name. ok is
// false on a miss; the caller keeps the raw string and sets the
// unresolved-delegation flag.
func (h *Harmonizer) Resolve(raw string) (canonical string, ok bool) {
	key := Normalize(raw)
	if key == "" {
		return "", false
	}

	if c, found := h.byKey[key]; found {
		return c, true
	}

	if h.config.Fuzzy {
		return h.fuzzyResolve(key)
	}

	return "", false
}

// ResolveAny tries each variant in order and returns the first hit.
// Multilingual headers carry several forms; any one of them may be the
// one the table knows.
func (h *Harmonizer) ResolveAny(variants []string) (canonical string, ok bool) {
	for _, v := range variants {
		if c, found := h.Resolve(v); found {
			return c, true
		}
	}
	return "", false
}

// fuzzyResolve finds the unique key within the distance bound. Two
// different canonical names at the same best distance is a miss, never
// a guess.
func (h *Harmonizer) fuzzyResolve(key string) (string, bool) {
	best := h.config.FuzzyMaxDistance + 1
	var bestCanonical string
	ambiguous := false

	for _, k := range h.keys {
		d := fuzzy.LevenshteinDistance(key, k)
		if d > h.config.FuzzyMaxDistance {
			continue
		}
		switch {
		case d < best:
			best = d
			bestCanonical = h.byKey[k]
			ambiguous = false
		case d == best && h.byKey[k] != bestCanonical:
			ambiguous = true
		}
	}

	if best > h.config.FuzzyMaxDistance || ambiguous {
		return "", false
	}
	return bestCanonical, true
}

// foldDiacritics strips combining marks: "Bélgica" and "Belgica" share
// a key.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the lookup key for a raw delegation string:
// diacritics folded, lowercased, punctuation stripped, whitespace
// collapsed.
func Normalize(raw string) string {
	folded, _, err := transform.String(foldDiacritics, raw)
	if err != nil {
		folded = raw
	}

	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}
