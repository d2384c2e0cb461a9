package retrieval

import (
	"context"
	"strings"
)

// NoRelevantCategories is the terminal sentinel returned when no category
// matched. Callers pattern-match on it to short-circuit the reasoning
// step; it is never surfaced as an error.
const NoRelevantCategories = "No relevant categories found in PDPA."

// categorySeparator joins per-category blocks in the assembled context.
var categorySeparator = "\n\n" + strings.Repeat("=", 50) + "\n\n"

// AssembleContext concatenates augmented category blocks in score order,
// each under a "## Category" header.
func AssembleContext(matches []CategoryMatch, augmented []string) string {
	if len(matches) == 0 {
		return NoRelevantCategories
	}

	blocks := make([]string, 0, len(matches))
	for i, match := range matches {
		blocks = append(blocks, "## "+titleCaser.String(match.Category)+"\n\n"+augmented[i])
	}
	return strings.Join(blocks, categorySeparator)
}

// CategoryHeaders re-parses the "## " headers out of an assembled
// context, recovering the category titles in assembly order. Returns nil
// for the sentinel.
func CategoryHeaders(assembled string) []string {
	if assembled == NoRelevantCategories {
		return nil
	}
	var headers []string
	for _, line := range strings.Split(assembled, "\n") {
		if strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "###") {
			headers = append(headers, strings.TrimPrefix(line, "## "))
		}
	}
	return headers
}

// BuildContext runs the full retrieval cascade for a set of key terms:
// category matching, the three augmentation passes per category, and
// final assembly. The returned matches let callers record which
// categories contributed.
func (m *Matcher) BuildContext(ctx context.Context, terms []string) (string, []CategoryMatch, error) {
	matches, err := m.Match(ctx, terms)
	if err != nil {
		return "", nil, err
	}
	if len(matches) == 0 {
		return NoRelevantCategories, nil, nil
	}

	augmented := make([]string, len(matches))
	for i, match := range matches {
		augmented[i] = Augment(match, m.store)
	}

	return AssembleContext(matches, augmented), matches, nil
}
