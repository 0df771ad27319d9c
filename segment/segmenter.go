package segment

import (
	"strings"
	"unicode"

	"github.com/rosterlab/rosterize/model"
	"github.com/rosterlab/rosterize/names"
)

// state is the segmenter's position inside the document.
type state int

const (
	// awaitingDelegation: before the first header. Everything but a
	// header is preamble and is skipped.
	awaitingDelegation state = iota

	// inDelegationHeader: a header was just consumed; the next content
	// line should start a person record.
	inDelegationHeader

	// inPersonName: a person line was consumed and its name was not yet
	// judged complete; the next continuation begins the affiliation.
	inPersonName

	// inAffiliation: continuations extend the open affiliation span.
	inAffiliation
)

// Result is the segmentation outcome: every delegation block and every
// person candidate found, in reading order.
type Result struct {
	Blocks     []*model.DelegationBlock
	Candidates []*model.PersonCandidate
}

// Segmenter walks the document's line sequence and carves it into
// delegation blocks and person candidates using a rule set.
type Segmenter struct {
	rules RuleSet
}

// New creates a segmenter over the given rule set.
func New(rules RuleSet) *Segmenter {
	return &Segmenter{rules: rules}
}

// Segment runs the state machine over the lines. Lines must already be
// in reading order (pages, then columns, then top to bottom).
//
// The machine guarantees that candidate spans within a block never
// overlap and that at most one block is open at any point. A repeated
// header identical to the open block's (the page-break case) does not
// close the block; it only separates the records around it.
func (s *Segmenter) Segment(lines []model.Line) Result {
	var (
		res       Result
		st        = awaitingDelegation
		block     *model.DelegationBlock
		candidate *model.PersonCandidate
		prev      *model.Line
	)

	closeCandidate := func(end int) {
		if candidate != nil {
			candidate.EndLine = end
			candidate = nil
		}
	}
	closeBlock := func(end int) {
		closeCandidate(end)
		if block != nil {
			block.EndLine = end
			block.Open = false
			block = nil
		}
	}

	for i := range lines {
		ln := lines[i]
		cls := s.rules.Classify(RuleContext{Line: ln, Prev: prev, BlockOpen: block != nil})
		prev = &lines[i]

		switch cls.Class {
		case Noise:
			continue

		case Header:
			variants := SplitVariants(ln.Text)
			if len(variants) == 0 {
				continue
			}
			if block != nil && sameHeader(block.Variants, variants) {
				// Same delegation restated after a page break.
				closeCandidate(i)
				block.EndLine = i + 1
				st = inDelegationHeader
				continue
			}
			closeBlock(i)
			block = &model.DelegationBlock{
				RawName:   variants[0],
				Variants:  variants,
				StartLine: i,
				EndLine:   i + 1,
				PageIndex: ln.PageIndex,
				Open:      true,
			}
			res.Blocks = append(res.Blocks, block)
			st = inDelegationHeader

		case PersonStart:
			if block == nil {
				// Person-shaped text before any header is preamble.
				continue
			}
			closeCandidate(i)
			honorific, rest := names.SplitHonorific(ln.Text)
			name, affil, split := splitNameAffiliation(rest)
			candidate = &model.PersonCandidate{
				Honorific:       honorific,
				NameSpan:        name,
				AffiliationSpan: affil,
				Block:           block,
				StartLine:       i,
				EndLine:         i + 1,
				PageIndex:       ln.PageIndex,
				Flags:           model.NewFlagSet(),
			}
			res.Candidates = append(res.Candidates, candidate)
			block.EndLine = i + 1
			if split {
				st = inAffiliation
			} else {
				st = inPersonName
			}

		default: // Continuation
			if block == nil {
				continue
			}
			block.EndLine = i + 1
			if candidate == nil {
				// Subtitle or stray text between a header and the first
				// person line; it stays with the block.
				continue
			}
			switch st {
			case inPersonName:
				candidate.AffiliationSpan = ln.Text
				st = inAffiliation
			case inAffiliation:
				candidate.AffiliationSpan = appendSpan(candidate.AffiliationSpan, ln.Text)
			}
			candidate.EndLine = i + 1
			if cls.Confidence < s.rules.AmbiguityThreshold {
				candidate.Flags.Set(model.FlagAmbiguousBoundary)
			}
		}
	}

	closeBlock(len(lines))
	return res
}

// SplitVariants splits a multilingual header on slashes and trims each
// form: "SWITZERLAND / SUISSE / SUIZA" yields three variants.
func SplitVariants(header string) []string {
	var out []string
	for _, p := range strings.Split(header, "/") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstAffiliationVariant collapses a multilingual affiliation to its
// first slash-separated form: "Ministry of Environment / Ministère de
// l'Environnement" keeps the first. A parenthesis left dangling by the
// cut is re-closed. Short heads such as "c" in "c/o" are not variants
// and the text is returned unchanged.
func FirstAffiliationVariant(text string) string {
	idx := strings.Index(text, "/")
	if idx < 0 {
		return text
	}
	head := strings.TrimSpace(text[:idx])
	if len(strings.Fields(head)) < 2 && len([]rune(head)) < 4 {
		return text
	}
	if strings.Count(head, "(") > strings.Count(head, ")") {
		head += ")"
	}
	return head
}

// sameHeader reports whether two variant lists name the same
// delegation, compared case- and spacing-insensitively on the first
// variant.
func sameHeader(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return foldHeader(a[0]) == foldHeader(b[0])
}

func foldHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// splitNameAffiliation decides whether the text after the honorific is
// a bare name, a "SURNAME, Given" comma form (still all name), or a
// name with an inline affiliation after the comma. The third case
// reports split=true.
func splitNameAffiliation(text string) (name, affiliation string, split bool) {
	idx := strings.Index(text, ",")
	if idx < 0 {
		return strings.TrimSpace(text), "", false
	}
	left := strings.TrimSpace(text[:idx])
	right := strings.TrimSpace(text[idx+1:])
	if right == "" {
		return left, "", false
	}
	if looksLikeGivenNames(right) {
		return strings.TrimSpace(text), "", false
	}
	return left, right, true
}

// organizationWords are tokens that mark the right side of a comma as
// an affiliation rather than given names.
var organizationWords = map[string]struct{}{
	"ministry": {}, "ministère": {}, "ministerio": {}, "ministerium": {},
	"department": {}, "dept": {}, "dirección": {}, "direction": {}, "directorate": {},
	"university": {}, "université": {}, "universidad": {}, "universität": {},
	"institute": {}, "institut": {}, "instituto": {},
	"agency": {}, "embassy": {}, "ambassade": {}, "embajada": {},
	"office": {}, "commission": {}, "committee": {}, "comité": {},
	"secretariat": {}, "secrétariat": {}, "secretaría": {},
	"society": {}, "fund": {}, "foundation": {}, "fondation": {},
	"association": {}, "authority": {}, "bureau": {}, "council": {},
	"service": {}, "servicio": {}, "government": {}, "gouvernement": {},
	"national": {}, "conservation": {}, "wildlife": {}, "environment": {},
	"environnement": {}, "fisheries": {}, "forestry": {}, "customs": {},
	"police": {}, "park": {}, "parks": {}, "museum": {}, "union": {},
}

// looksLikeGivenNames reports whether the text is plausibly the given
// half of a "SURNAME, Given" name: one to three capitalized tokens or
// dotted initials, none of which is an organization word.
func looksLikeGivenNames(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 || len(fields) > 3 {
		return false
	}
	for _, tok := range fields {
		if _, org := organizationWords[strings.ToLower(strings.Trim(tok, ".,"))]; org {
			return false
		}
		if !isNameToken(tok) {
			return false
		}
	}
	return true
}

// isNameToken accepts capitalized words, dotted initials and
// hyphenated forms ("Jean-Pierre"); digits and symbols disqualify.
func isNameToken(tok string) bool {
	tok = strings.TrimSuffix(tok, ".")
	if tok == "" {
		return false
	}
	first := true
	for _, r := range tok {
		if first {
			if !unicode.IsUpper(r) {
				return false
			}
			first = false
			continue
		}
		if !unicode.IsLetter(r) && r != '-' && r != '\'' && r != '.' {
			return false
		}
	}
	return true
}

// appendSpan joins a new line onto an open affiliation span. Lines are
// separate address fields, so they join with a comma unless the span
// already ends with connecting punctuation.
func appendSpan(span, text string) string {
	if span == "" {
		return text
	}
	last := span[len(span)-1]
	if last == ',' || last == '-' || last == ';' || last == ':' {
		return span + " " + text
	}
	return span + ", " + text
}
