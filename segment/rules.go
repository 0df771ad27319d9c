package segment

import (
	"strings"
	"unicode"

	"github.com/rosterlab/rosterize/model"
	"github.com/rosterlab/rosterize/names"
)

// LineClass tags what a line is to the state machine.
type LineClass int

const (
	// Continuation extends whichever span is currently open.
	Continuation LineClass = iota

	// Header opens a new delegation block.
	Header

	// PersonStart opens a new person record.
	PersonStart

	// Noise is dropped (stray symbols the normalizer let through).
	Noise
)

// String returns a string representation of the class.
func (c LineClass) String() string {
	switch c {
	case Header:
		return "header"
	case PersonStart:
		return "person-start"
	case Noise:
		return "noise"
	default:
		return "continuation"
	}
}

// Classification is the outcome of scoring one line: the winning class,
// the winning rule's confidence, and the rule's name for diagnostics.
type Classification struct {
	Class      LineClass
	Confidence float64
	Rule       string
}

// RuleContext is what a rule sees: the line, its predecessor (nil at
// document start) and whether a delegation block is currently open.
type RuleContext struct {
	Line      model.Line
	Prev      *model.Line
	BlockOpen bool
}

// Rule is one named layout or lexical cue producing a class and a
// confidence. A confidence of zero means the rule does not apply.
type Rule struct {
	Name  string
	Apply func(ctx RuleContext) (LineClass, float64)
}

// RuleSet is an ordered collection of rules with an explicit combine
// policy. Roster eras differ in layout (bold headers early, all-caps
// headers later); each era is a rule set, not a special-cased branch.
type RuleSet struct {
	// Name identifies the era for diagnostics.
	Name string

	// AmbiguityThreshold is the confidence below which a line counts as
	// ambiguous and flags the record it lands in.
	AmbiguityThreshold float64

	Rules []Rule
}

// Classify scores the line under every rule and combines the results.
// Policy: the best score per class is kept; when both header and
// person-start cues fire, the header wins only if no block is open
// (mid-block, a line that could be either is a person line); the final
// class is the highest-scoring survivor.
func (rs RuleSet) Classify(ctx RuleContext) Classification {
	best := map[LineClass]Classification{}

	for _, rule := range rs.Rules {
		class, score := rule.Apply(ctx)
		if score <= 0 {
			continue
		}
		if cur, ok := best[class]; !ok || score > cur.Confidence {
			best[class] = Classification{Class: class, Confidence: score, Rule: rule.Name}
		}
	}

	if len(best) == 0 {
		return Classification{Class: Continuation, Confidence: 0, Rule: "none"}
	}

	// Header/person tie-break.
	if _, hasHeader := best[Header]; hasHeader {
		if _, hasPerson := best[PersonStart]; hasPerson {
			if ctx.BlockOpen {
				delete(best, Header)
			} else {
				delete(best, PersonStart)
			}
		}
	}

	var winner Classification
	for _, c := range best {
		if c.Confidence > winner.Confidence {
			winner = c
		}
	}
	return winner
}

// DefaultRules returns the rule set for the all-caps-header roster
// layouts.
func DefaultRules(minCapsRun int) RuleSet {
	return RuleSet{
		Name:               "default",
		AmbiguityThreshold: 0.5,
		Rules: []Rule{
			underlineHeaderRule(),
			allCapsHeaderRule(minCapsRun),
			honorificStartRule(),
			dottedInitialStartRule(),
			paragraphStartRule(),
			emailContinuationRule(),
			indentContinuationRule(),
			inlineContinuationRule(),
			noiseRule(),
			fallbackRule(),
		},
	}
}

// EarlyRules returns the rule set for the earliest single-column
// rosters, where delegation headers are bold rather than all-caps.
func EarlyRules(minCapsRun int) RuleSet {
	return RuleSet{
		Name:               "early",
		AmbiguityThreshold: 0.5,
		Rules: []Rule{
			boldHeaderRule(),
			underlineHeaderRule(),
			allCapsHeaderRule(minCapsRun),
			honorificStartRule(),
			dottedInitialStartRule(),
			emailContinuationRule(),
			indentContinuationRule(),
			inlineContinuationRule(),
			noiseRule(),
			fallbackRule(),
		},
	}
}

// underlineHeaderRule: an underlined line without a title prefix is a
// delegation header.
func underlineHeaderRule() Rule {
	return Rule{
		Name: "underline-header",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if ctx.Line.Underlined && !names.HasHonorific(ctx.Line.Text) {
				return Header, 0.95
			}
			return Continuation, 0
		},
	}
}

// boldHeaderRule: in the early layouts a bold line is a delegation
// header, whatever its casing.
func boldHeaderRule() Rule {
	return Rule{
		Name: "bold-header",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if ctx.Line.Bold && !names.HasHonorific(ctx.Line.Text) {
				return Header, 0.92
			}
			return Continuation, 0
		},
	}
}

// allCapsHeaderRule: a line of only capitals, spaces and slashes with
// enough letters is a header ("SWITZERLAND / SUISSE / SUIZA").
func allCapsHeaderRule(minCapsRun int) Rule {
	return Rule{
		Name: "allcaps-header",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if !ctx.Line.AllCaps {
				return Continuation, 0
			}
			if letterCount(ctx.Line.Text) < minCapsRun {
				return Continuation, 0
			}
			return Header, 0.9
		},
	}
}

// honorificStartRule: a recognized title prefix starts a person record.
func honorificStartRule() Rule {
	return Rule{
		Name: "honorific-start",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if names.HasHonorific(ctx.Line.Text) {
				return PersonStart, 0.85
			}
			return Continuation, 0
		},
	}
}

// dottedInitialStartRule: a dotted initial near the line start ("J.
// SMITH") is a person-start cue even without a title.
func dottedInitialStartRule() Rule {
	return Rule{
		Name: "dotted-initial-start",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if hasDottedInitial(ctx.Line.Text) {
				return PersonStart, 0.7
			}
			return Continuation, 0
		},
	}
}

// paragraphStartRule: in the paragraph-per-person layouts, a new
// paragraph that is not a header opens a person record.
func paragraphStartRule() Rule {
	return Rule{
		Name: "paragraph-start",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if ctx.Line.ParagraphStart && !ctx.Line.AllCaps && startsUpper(ctx.Line.Text) {
				return PersonStart, 0.6
			}
			return Continuation, 0
		},
	}
}

// emailContinuationRule: an email token anchors the end of the open
// affiliation; it never starts a new record.
func emailContinuationRule() Rule {
	return Rule{
		Name: "email-continuation",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if strings.Contains(ctx.Line.Text, "@") {
				return Continuation, 0.8
			}
			return Continuation, 0
		},
	}
}

// indentShiftMin is the left-offset increase, in page units, that marks
// a line as hanging under its predecessor.
const indentShiftMin = 5.0

// indentContinuationRule: a line set deeper than its predecessor hangs
// under it and extends the open span, even across a paragraph gap.
func indentContinuationRule() Rule {
	return Rule{
		Name: "indent-continuation",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if ctx.Prev != nil && ctx.Line.Indent > ctx.Prev.Indent+indentShiftMin {
				return Continuation, 0.55
			}
			return Continuation, 0
		},
	}
}

// inlineContinuationRule: a line inside a paragraph extends the open
// span.
func inlineContinuationRule() Rule {
	return Rule{
		Name: "inline-continuation",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if !ctx.Line.ParagraphStart {
				return Continuation, 0.6
			}
			return Continuation, 0
		},
	}
}

// noiseRule: a line with no letters at all is layout debris.
func noiseRule() Rule {
	return Rule{
		Name: "noise",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			if letterCount(ctx.Line.Text) == 0 {
				return Noise, 0.9
			}
			return Continuation, 0
		},
	}
}

// fallbackRule: every line gets at least a low-confidence continuation,
// so nothing is ever dropped, only flagged.
func fallbackRule() Rule {
	return Rule{
		Name: "fallback",
		Apply: func(ctx RuleContext) (LineClass, float64) {
			return Continuation, 0.3
		},
	}
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// hasDottedInitial reports a token shaped like "J." among the first few
// tokens of the line.
func hasDottedInitial(s string) bool {
	fields := strings.Fields(s)
	limit := 4
	if len(fields) < limit {
		limit = len(fields)
	}
	for _, tok := range fields[:limit] {
		tok = strings.TrimSuffix(tok, ",")
		if len(tok) == 2 && tok[1] == '.' && tok[0] >= 'A' && tok[0] <= 'Z' {
			return true
		}
	}
	return false
}
