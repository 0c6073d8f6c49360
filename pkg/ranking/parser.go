// Package ranking parses free-form peer-ranking text from an evaluator
// model into an ordered list of response labels, then aggregates several
// evaluators' rankings into a single average-rank order (spec §4.7, C7).
//
// The text-extraction approach — regexp over an LLM's free-form reply,
// with a fallback strategy when the model doesn't follow the requested
// format — is grounded on pkg/agent/controller/scoring.go's
// extractScore/scoreRegex pattern.
package ranking

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports that an evaluator's ranking text could not be
// interpreted by any parsing strategy.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return fmt.Sprintf("ranking: %s", e.Reason) }

// numberedLine matches a numbered-list line holding exactly one response
// label and nothing else, e.g. "1. Response B".
var numberedLine = regexp.MustCompile(`^\s*\d+\.\s*(Response [A-Z])\s*$`)

// anyLabel matches a response label occurring anywhere in text.
var anyLabel = regexp.MustCompile(`Response [A-Z]`)

// Parse extracts an ordered list of response labels ("Response A",
// "Response B", ...) from an evaluator's free-form ranking text, most
// preferred first, following spec §4.7's five-step strategy:
//  1. Locate the first line beginning with "FINAL RANKING" (case-sensitive).
//  2. From the following lines, extract numbered-list lines holding a
//     single response label, in order, stopping at the first non-empty
//     line that doesn't match.
//  3. Fallback A: if step 2 yields nothing but the section exists, collect
//     all label occurrences in the section, in order.
//  4. Fallback B: if there is no section, collect all label occurrences
//     anywhere in the text, in order.
//  5. Otherwise, fail.
//
// Duplicate labels are preserved, not deduplicated — an accepted
// simplification per spec §4.7 ("duplicates ... slightly bias the
// aggregate").
func Parse(text string) ([]string, error) {
	section, hasSection := findFinalRankingSection(text)

	if hasSection {
		if labels := parseNumberedSection(section); len(labels) > 0 {
			return labels, nil
		}
		if labels := anyLabel.FindAllString(section, -1); len(labels) > 0 {
			return labels, nil
		}
	}

	if !hasSection {
		if labels := anyLabel.FindAllString(text, -1); len(labels) > 0 {
			return labels, nil
		}
	}

	return nil, &ParseError{Reason: "no response labels found in evaluator reply"}
}

// findFinalRankingSection returns the text following the first line that
// begins with "FINAL RANKING" (case-sensitive), and whether such a line
// was found at all.
func findFinalRankingSection(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "FINAL RANKING") {
			return strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", false
}

// parseNumberedSection extracts leading numbered-list lines holding a
// single label, stopping at the first non-empty line that doesn't match.
func parseNumberedSection(section string) []string {
	var out []string
	for _, line := range strings.Split(section, "\n") {
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			out = append(out, m[1])
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		break
	}
	return out
}
