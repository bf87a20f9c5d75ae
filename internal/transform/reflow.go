package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// Provider descriptions arrive as one unbroken string: the dealer's DMS strips
// every line break before upload. Reflow reconstructs readable paragraphs with
// an ordered pipeline of named steps. The pipeline is idempotent: each step
// either inserts whitespace that stops its own pattern from matching again or
// runs its rewrite to a fixed point.

// Brand and feature terms with internal capitals that the capital-run splitter
// would otherwise tear apart.
var protectedTerms = []string{
	"CarPlay",
	"EcoBoost",
	"BlueMotion",
	"TomTom",
	"xDrive",
	"sDrive",
	"ConnectedDrive",
	"ParkAssist",
	"LaneAssist",
}

// Section headers dealers concatenate straight onto the previous word.
var sectionHeaders = []string{
	"Options:",
	"Features:",
	"Specification:",
	"Equipment:",
	"History:",
	"Finance:",
	"Warranty:",
}

var (
	sentenceBreakRe = regexp.MustCompile(`([a-z0-9][.!?])([A-Z])`)
	headerBreakRe   = regexp.MustCompile(`(\S)(` + strings.Join(sectionHeaders, "|") + `)`)
	bulletBreakRe   = regexp.MustCompile("([^\\n])([•‣])")
	capitalRunRe    = regexp.MustCompile(`([A-Za-z][a-z]{2,})([A-Z][a-z]{2,})`)
	breakCollapseRe = regexp.MustCompile(`\n{3,}`)
)

type reflowStep struct {
	name  string
	apply func(string) string
}

var reflowSteps = []reflowStep{
	{"protectTerms", maskTerms},
	{"breakSentences", func(s string) string {
		return sentenceBreakRe.ReplaceAllString(s, "$1\n\n$2")
	}},
	{"breakHeaders", func(s string) string {
		return headerBreakRe.ReplaceAllString(s, "$1\n\n$2")
	}},
	{"breakBullets", func(s string) string {
		return bulletBreakRe.ReplaceAllString(s, "$1\n$2")
	}},
	{"splitCapitalRuns", func(s string) string {
		// ReplaceAllString is non-overlapping: a run of three or more
		// concatenated words splits at every other boundary per pass,
		// so repeat until the string settles.
		for {
			split := capitalRunRe.ReplaceAllString(s, "$1 $2")
			if split == s {
				return s
			}
			s = split
		}
	}},
	{"collapseBreaks", func(s string) string {
		return breakCollapseRe.ReplaceAllString(s, "\n\n")
	}},
	{"restoreTerms", restoreTerms},
	{"trim", strings.TrimSpace},
}

// Reflow normalizes one provider description into paragraphed text.
func Reflow(description string) string {
	out := description
	for _, step := range reflowSteps {
		out = step.apply(out)
	}
	return out
}

func termToken(i int) string {
	return fmt.Sprintf("\x00%02d\x00", i)
}

func maskTerms(s string) string {
	for i, term := range protectedTerms {
		s = strings.ReplaceAll(s, term, termToken(i))
	}
	return s
}

func restoreTerms(s string) string {
	for i, term := range protectedTerms {
		s = strings.ReplaceAll(s, termToken(i), term)
	}
	return s
}
