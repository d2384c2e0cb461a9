package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lawgic-backend/corpus"
	"lawgic-backend/embedding"
)

const (
	// SectionSeparator joins blocks inside a category context.
	SectionSeparator = "\n\n---\n\n"

	defaultThreshold  = 0.3
	defaultMaxMatches = 3
)

// CategoryMatch is one selected statutory category: its similarity score,
// the assembled context of every section in it, and the section pairs the
// subsidiary pass later consumes.
type CategoryMatch struct {
	Category string
	Score    float64
	Context  string
	Sections []corpus.Section
}

// Matcher selects statutory categories by embedding similarity against
// extracted key terms.
type Matcher struct {
	store      *corpus.Store
	embedder   embedding.Embedder
	threshold  float64
	maxMatches int
}

// MatcherOption is a functional option for Matcher
type MatcherOption func(*Matcher)

// WithThreshold sets the minimum similarity for a category to match
func WithThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// WithMaxMatches caps the number of matched categories
func WithMaxMatches(n int) MatcherOption {
	return func(m *Matcher) {
		m.maxMatches = n
	}
}

// NewMatcher creates a category matcher over the given corpus store.
func NewMatcher(store *corpus.Store, embedder embedding.Embedder, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		store:      store,
		embedder:   embedder,
		threshold:  defaultThreshold,
		maxMatches: defaultMaxMatches,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match compares key terms against category names in embedding space. A
// category's score is the maximum similarity over all terms: one strongly
// matching term is enough. Empty input is a terminal no-match outcome,
// not an error, and triggers no embedding calls.
func (m *Matcher) Match(ctx context.Context, terms []string) ([]CategoryMatch, error) {
	cleaned := cleanTerms(terms)
	if len(cleaned) == 0 {
		return nil, nil
	}

	tree, err := m.store.Statute()
	if err != nil {
		return nil, err
	}

	categoryNames, categoryVecs, err := m.store.CategoryEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	termVecs, err := m.embedder.Embed(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("embed key terms: %w", err)
	}

	// Vectors are unit-normalized, so the dot product is the cosine
	// similarity. Score per category is the max over terms.
	type candidate struct {
		name  string
		score float64
	}
	var candidates []candidate
	for i, name := range categoryNames {
		best := 0.0
		for _, tv := range termVecs {
			if sim := dot(tv, categoryVecs[i]); sim > best {
				best = sim
			}
		}
		if best >= m.threshold {
			candidates = append(candidates, candidate{name: name, score: best})
		}
	}

	// Stable sort keeps corpus document order on ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > m.maxMatches {
		candidates = candidates[:m.maxMatches]
	}

	matches := make([]CategoryMatch, 0, len(candidates))
	for _, c := range candidates {
		category, ok := tree.Category(c.name)
		if !ok {
			continue
		}

		// Category matching is coarse-grained: once a category is
		// selected, every section in it is included.
		parts := make([]string, 0, len(category.Sections))
		sections := make([]corpus.Section, 0, len(category.Sections))
		for _, section := range category.Sections {
			parts = append(parts, fmt.Sprintf("### %s\n%s", section.Title, section.Text))
			sections = append(sections, section)
		}

		matches = append(matches, CategoryMatch{
			Category: c.name,
			Score:    c.score,
			Context:  strings.Join(parts, SectionSeparator),
			Sections: sections,
		})
	}

	return matches, nil
}

// cleanTerms trims, lowercases and deduplicates, preserving order.
func cleanTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var cleaned []string
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		cleaned = append(cleaned, t)
	}
	return cleaned
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
