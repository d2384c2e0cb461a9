package term

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"lawgic-backend/ner"
)

// maxTerms caps the extractor output.
const maxTerms = 15

// minConfidence is the acceptance threshold for NER spans.
const minConfidence = 0.6

// Extractor turns a raw legal scenario into a ranked list of key terms by
// merging four extraction layers: fixed legal keywords, NER spans,
// context qualifiers, and data-type/gazetteer patterns.
type Extractor struct {
	recognizer ner.Recognizer
}

// ExtractorOption is a functional option for Extractor
type ExtractorOption func(*Extractor)

// WithRecognizer sets the entity recognition capability. Without one the
// NER layer simply contributes nothing.
func WithRecognizer(r ner.Recognizer) ExtractorOption {
	return func(e *Extractor) {
		e.recognizer = r
	}
}

// NewExtractor creates a term extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns at most 15 key terms for the query, ranked by relevance.
// The keyword, context and entity layers run over a lowercased trimmed
// copy; the NER layer sees the original casing.
func (e *Extractor) Extract(ctx context.Context, query string) []string {
	clean := strings.ToLower(strings.TrimSpace(query))

	keywordTerms := extractKeywords(clean)
	nerTerms := e.extractNERTerms(ctx, query)
	contextTerms := extractContextWords(clean)
	entityTerms := extractEntities(clean)

	return combineTerms(keywordTerms, nerTerms, contextTerms, entityTerms, clean)
}

// wordBoundaryPattern builds a \b-delimited pattern for a literal term.
func wordBoundaryPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
}

func extractKeywords(text string) []string {
	var found []string
	for _, category := range legalKeywords {
		for _, term := range category.terms {
			if wordBoundaryPattern(term).MatchString(text) {
				found = append(found, term)
			}
		}
	}
	return found
}

var (
	nerArtifacts = regexp.MustCompile(`[#\[\]]`)
	nerJunk      = regexp.MustCompile(`^[\d@#$%^&*()]+$|^[a-z]$`)
)

// extractNERTerms runs the recognition capability over the original-case
// query. Any failure degrades to no terms; the rest of the pipeline is
// unaffected.
func (e *Extractor) extractNERTerms(ctx context.Context, query string) []string {
	if e.recognizer == nil {
		return nil
	}
	spans, err := e.recognizer.Recognize(ctx, query)
	if err != nil {
		return nil
	}

	var terms []string
	for _, span := range spans {
		if span.Score <= minConfidence {
			continue
		}
		term := cleanNERTerm(span.Text)
		if term == "" || commonWordStoplist[term] {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// cleanNERTerm strips tokenizer artifacts and rejects junk spans.
func cleanNERTerm(raw string) string {
	term := nerArtifacts.ReplaceAllString(raw, "")
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < 2 {
		return ""
	}
	if nerJunk.MatchString(term) {
		return ""
	}
	return term
}

func extractContextWords(text string) []string {
	var found []string
	for _, word := range contextWords {
		if wordBoundaryPattern(word).MatchString(text) {
			found = append(found, word)
		}
	}
	return found
}

func extractEntities(text string) []string {
	var entities []string

	for _, pattern := range dataTypePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			var parts []string
			for _, group := range match[1:] {
				if group != "" {
					parts = append(parts, group)
				}
			}
			entity := strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
			if len(entity) > 1 && len(strings.Fields(entity)) <= 4 {
				entities = append(entities, entity)
			}
		}
	}

	for _, place := range knownPlaces {
		if wordBoundaryPattern(place).MatchString(text) {
			entities = append(entities, place)
		}
	}

	for _, org := range knownOrgs {
		if wordBoundaryPattern(org).MatchString(text) {
			entities = append(entities, org)
		}
	}

	return entities
}

// combineTerms merges the four layers in fixed order, deduplicates,
// scores and ranks.
func combineTerms(keywordTerms, nerTerms, contextTerms, entityTerms []string, cleanQuery string) []string {
	all := make([]string, 0, len(keywordTerms)+len(nerTerms)+len(contextTerms)+len(entityTerms))
	all = append(all, keywordTerms...)
	all = append(all, nerTerms...)
	all = append(all, contextTerms...)
	all = append(all, entityTerms...)

	unique := dedupeTerms(all)
	deduplicated := collapseSynonymGroups(unique)

	keywordSet := toSet(keywordTerms)
	nerSet := toSet(nerTerms)

	type scoredTerm struct {
		term  string
		score int
	}
	scored := make([]scoredTerm, 0, len(deduplicated))
	for _, term := range deduplicated {
		scored = append(scored, scoredTerm{
			term:  term,
			score: scoreTerm(term, cleanQuery, keywordSet, nerSet),
		})
	}

	// Stable sort: ties keep combination order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	final := make([]string, 0, maxTerms)
	for _, st := range scored {
		if st.score <= 0 {
			continue
		}
		final = append(final, st.term)
		if len(final) == maxTerms {
			break
		}
	}
	return final
}

// dedupeTerms removes exact duplicates, first occurrence wins. Terms of a
// single character are dropped.
func dedupeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var unique []string
	for _, term := range terms {
		if seen[term] || len(strings.TrimSpace(term)) <= 1 {
			continue
		}
		seen[term] = true
		unique = append(unique, term)
	}
	return unique
}

// collapseSynonymGroups keeps at most one canonical representative per
// synonym group. The first term belonging to a group claims it; later
// members of a claimed group are dropped even if spelled differently.
func collapseSynonymGroups(terms []string) []string {
	used := make(map[int]bool, len(synonymGroups))
	var final []string

	for _, term := range terms {
		grouped := false
		for i, group := range synonymGroups {
			for _, member := range group.members {
				if term == member {
					if !used[i] {
						final = append(final, group.canonical)
						used[i] = true
					}
					grouped = true
					break
				}
			}
			if grouped {
				break
			}
		}
		if !grouped {
			final = append(final, term)
		}
	}
	return final
}

// scoreTerm computes the relevance score: occurrence frequency in the
// query, source bonuses, priority and data-type bonuses, and a multi-word
// specificity bonus.
func scoreTerm(term, cleanQuery string, keywordSet, nerSet map[string]bool) int {
	score := 0

	score += 3 * len(wordBoundaryPattern(term).FindAllString(cleanQuery, -1))

	if keywordSet[term] {
		score += 2
	}
	if nerSet[term] {
		score += 2
	}
	if highPriorityTerms[term] {
		score += 3
	}
	for _, indicator := range dataIndicators {
		if strings.Contains(term, indicator) {
			score++
			break
		}
	}
	if len(strings.Fields(term)) > 1 {
		score++
	}

	return score
}

func toSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, term := range terms {
		set[term] = true
	}
	return set
}
