// Package segment carves a roster's line sequence into delegation
// blocks and person records. Classification is rule-based: each layout
// era (bold headers, all-caps headers) is a RuleSet, and a small state
// machine turns the per-line classes into non-overlapping spans.
package segment
