package names

import (
	"regexp"
	"strings"
)

// honorificPattern matches the title run at the start of a person line.
// It covers the dotted and bare forms seen across the roster corpus in
// English, French and Spanish, including the compound excellency forms
// ("H.E. Mr.", "S.E. Mme"). More specific alternatives come first; the
// matcher prefers earlier alternatives.
var honorificPattern = regexp.MustCompile(
	`^(?:` +
		`H\.R\.H\.\s*|H\.H\.\s*|H\.O\.\s*|` +
		`H\.E\.(?:\s*(?:Mrs\.\s*|Mr\.\s*|Ms\.\s*|Sra\.\s*|Sr\.\s*|Mme\s+|Msgr\.\s*|Dr\.\s*|M\.\s*|Mr\s+|Ms\s+|Sra\s+|Sr\s+))?|` +
		`S\.E\.(?:\s*(?:Mrs\.\s*|Mr\.\s*|Ms\.\s*|Sra\.\s*|Sr\.\s*|Mme\s+|Msgr\.\s*|Dr\.\s*|M\.\s*|Mr\s+|Ms\s+|Sra\s+|Sr\s+))?|` +
		`Msgr\.\s*|Mrs\.\s*|Mr\.\s*|Mx\.\s*|Ms\.\s*|Dr\.\s*|Prof\.\s*|Rev\.\s*|Fr\.\s*|On\.\s*|Sra\.\s*|Sr\.\s*|Ind\.\s*|St\.\s*|` +
		`Miss\s+|Mlle\s+|Mme\s+|Msgr\s+|Rev\s+|Sra\s+|Sr\s+|Ms\s+|Mr\s+|On\s+|Fr\s+|Ind\s+|His\s+|M\s+|` +
		`M\.\s*` +
		`)`,
)

// SplitHonorific splits a person line into its honorific prefix and the
// remainder. Lines without a recognized title return ("", line).
func SplitHonorific(line string) (honorific, rest string) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "", ""
	}

	m := honorificPattern.FindString(s)
	if m == "" {
		return "", s
	}

	return strings.TrimSpace(m), strings.TrimSpace(s[len(m):])
}

// HasHonorific reports whether the line starts with a recognized title.
// This is one of the person-start cues for segmentation.
func HasHonorific(line string) bool {
	h, _ := SplitHonorific(line)
	return h != ""
}
