// Package names canonicalizes captured person-name spans into
// "Given [Middle] Surname" form and recognizes honorific prefixes.
//
// Roster name spans come in three shapes: "SURNAME, Given", "SURNAME
// Given" (surname first, set in capitals) and "Given SURNAME". The
// normalizer reorders and recases all three; anything else passes
// through unchanged so a human can review it.
package names

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Config holds configuration for name normalization.
type Config struct {
	// Particles are surname particles ("van", "de", "von", "al", …)
	// that attach to the surname instead of counting as given names.
	Particles []string
}

// DefaultConfig returns the particle set seen across the rosters.
func DefaultConfig() Config {
	return Config{
		Particles: []string{
			"van", "von", "de", "del", "della", "der", "den",
			"da", "dos", "du", "la", "le", "al", "el", "bin", "ben",
		},
	}
}

// Normalizer canonicalizes name spans. Normalization is idempotent: a
// name already in "Given Surname" form comes back unchanged.
type Normalizer struct {
	config    Config
	particles map[string]struct{}
	titler    cases.Caser
}

// NewNormalizer creates a normalizer with default configuration.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithConfig(DefaultConfig())
}

// NewNormalizerWithConfig creates a normalizer with custom configuration.
func NewNormalizerWithConfig(config Config) *Normalizer {
	particles := make(map[string]struct{}, len(config.Particles))
	for _, p := range config.Particles {
		particles[strings.ToLower(p)] = struct{}{}
	}
	return &Normalizer{
		config:    config,
		particles: particles,
		titler:    cases.Title(language.Und),
	}
}

// Normalize returns the canonical "Given [Middle] Surname" form of the
// span and whether any rule applied. When no rule matches, the span is
// returned unchanged with ok == false so the caller can flag the record
// instead of dropping it.
func (n *Normalizer) Normalize(span string) (name string, ok bool) {
	s := strings.TrimSpace(span)
	if s == "" {
		return "", false
	}

	if idx := strings.Index(s, ","); idx >= 0 {
		return n.fromCommaForm(s[:idx], s[idx+1:]), true
	}

	parts := strings.Fields(s)
	if len(parts) < 2 {
		return s, false
	}

	// Surname-first: a leading run of all-caps tokens followed by
	// mixed-case given names.
	if run := leadingCapsRun(parts); run > 0 && run < len(parts) {
		return joinName(parts[run:], n.recase(parts[:run])), true
	}

	// Given-first with a trailing all-caps surname run.
	if run := trailingCapsRun(parts); run > 0 && run < len(parts) {
		return joinName(parts[:len(parts)-run], n.recase(parts[len(parts)-run:])), true
	}

	return s, false
}

// fromCommaForm rebuilds "Surname, Given [particles]" as
// "Given [particles] Surname". Trailing particles on the given side
// belong to the surname, so "Berg, Jan van der" becomes
// "Jan van der Berg".
func (n *Normalizer) fromCommaForm(left, right string) string {
	surname := n.recase(strings.Fields(left))
	given := strings.Fields(right)

	// Peel particles off the end of the given names onto the surname.
	var particles []string
	for len(given) > 0 {
		last := given[len(given)-1]
		if _, isParticle := n.particles[strings.ToLower(last)]; !isParticle {
			break
		}
		particles = append([]string{last}, particles...)
		given = given[:len(given)-1]
	}

	// Recase the given side too. "SMITH, JOHN" must come out
	// "John Smith" on the first pass; leftover capitals would read as
	// a surname run on a later pass and swap the halves.
	out := make([]string, 0, len(given)+len(particles)+len(surname))
	out = append(out, n.recase(given)...)
	out = append(out, n.recase(particles)...)
	out = append(out, surname...)
	return strings.Join(out, " ")
}

// recase title-cases all-caps name tokens and leaves mixed-case ones
// alone. All-caps particles become lowercase ("DE LA CRUZ" reads
// "de la Cruz"); particles already cased are kept.
func (n *Normalizer) recase(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		if _, isParticle := n.particles[strings.ToLower(tok)]; isParticle {
			if isCapsToken(tok) {
				out[i] = strings.ToLower(tok)
			} else {
				out[i] = tok
			}
			continue
		}
		if isCapsToken(tok) {
			out[i] = n.titler.String(strings.ToLower(tok))
			continue
		}
		out[i] = tok
	}
	return out
}

// joinName concatenates given names and surname tokens into one span.
func joinName(given, surname []string) string {
	out := make([]string, 0, len(given)+len(surname))
	out = append(out, given...)
	out = append(out, surname...)
	return strings.Join(out, " ")
}

// leadingCapsRun counts the all-caps tokens at the start of the parts,
// stopping at the first mixed-case token.
func leadingCapsRun(parts []string) int {
	run := 0
	for _, p := range parts {
		if !isCapsToken(p) {
			break
		}
		run++
	}
	return run
}

// trailingCapsRun counts the all-caps tokens at the end of the parts.
func trailingCapsRun(parts []string) int {
	run := 0
	for i := len(parts) - 1; i >= 0; i-- {
		if !isCapsToken(parts[i]) {
			break
		}
		run++
	}
	return run
}

// isCapsToken reports whether the token is a capitals-only surname
// token: at least two letters, no lowercase, and not a dotted initial
// like "A.".
func isCapsToken(tok string) bool {
	if strings.HasSuffix(tok, ".") {
		return false
	}
	letters := 0
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r == 'ʼ' || r == '\'' || r == '-':
			// Allowed inside surnames (O'BRIEN, SAINT-PIERRE).
		default:
			if strings.ToLower(string(r)) != string(r) {
				letters++
			} else if strings.ToUpper(string(r)) != string(r) {
				// Lowercase letter outside ASCII.
				return false
			}
		}
	}
	return letters >= 2
}
