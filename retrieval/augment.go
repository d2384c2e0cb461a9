package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lawgic-backend/corpus"
)

// The augmentation cascade: three passes run in fixed order per matched
// category. Each pass is a pure append over the context text; a pass that
// finds nothing returns its input unchanged, and no pass rewrites text
// appended earlier. Re-running a pass against already-augmented context
// can append duplicate blocks; callers run each pass exactly once per
// category.

var titleCaser = cases.Title(language.English)

// AppendDefinitions scans the context for defined terms (case-insensitive
// word-boundary containment, table order) and appends their definitions.
func AppendDefinitions(context string, defs *corpus.Definitions) string {
	if strings.TrimSpace(context) == "" || defs == nil {
		return context
	}

	lowered := strings.ToLower(context)

	var additions []string
	seen := make(map[string]bool)
	for _, entry := range defs.Entries {
		key := strings.ToLower(entry.Term)
		if seen[key] {
			continue
		}
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
		if !pattern.MatchString(lowered) {
			continue
		}
		seen[key] = true
		additions = append(additions, fmt.Sprintf("### Definition: %s\n%s", entry.Term, entry.Text))
	}

	if len(additions) == 0 {
		return context
	}
	return context + SectionSeparator + strings.Join(additions, SectionSeparator)
}

var schedulePattern = regexp.MustCompile(`(?i)\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth|eleventh)\s+schedule\b`)

// AppendSchedules finds ordinal schedule references ("fifth schedule") in
// the context and appends the referenced schedule text. Each distinct
// ordinal is appended at most once per pass, in first-occurrence order.
func AppendSchedules(context string, schedules corpus.Schedules) string {
	if strings.TrimSpace(context) == "" || len(schedules) == 0 {
		return context
	}

	matches := schedulePattern.FindAllStringSubmatch(context, -1)
	if len(matches) == 0 {
		return context
	}

	seen := make(map[string]bool)
	var ordinals []string
	for _, m := range matches {
		key := strings.ToLower(m[1])
		if seen[key] {
			continue
		}
		seen[key] = true
		ordinals = append(ordinals, key)
	}

	var additions []string
	for _, ordinal := range ordinals {
		text, ok := schedules[ordinal]
		if !ok {
			continue
		}
		additions = append(additions, fmt.Sprintf("### %s Schedule\n%s", titleCaser.String(ordinal), text))
	}

	if len(additions) == 0 {
		return context
	}
	return context + SectionSeparator + strings.Join(additions, SectionSeparator)
}

var sectionNumberPattern = regexp.MustCompile(`^(\d+[a-z]?)\s+`)

// AppendSubsidiary extracts the leading section number from each captured
// section title ("21 notification of purpose" -> "21") and appends the
// first regulation, in mapping insertion order, that covers that number.
// First match wins; later regulations are not searched for that section.
func AppendSubsidiary(context string, sections []corpus.Section, mapping *corpus.SubsidiaryMapping) string {
	if strings.TrimSpace(context) == "" || len(sections) == 0 || mapping == nil {
		return context
	}

	var additions []string
	for _, section := range sections {
		m := sectionNumberPattern.FindStringSubmatch(section.Title)
		if m == nil {
			continue
		}
		sectionNumber := m[1]

		for _, reg := range mapping.Regulations {
			info, ok := reg.Sections[sectionNumber]
			if !ok {
				continue
			}
			if info.Description != "" {
				block := fmt.Sprintf("### Subsidiary Legislation - Section %s\n", sectionNumber)
				block += fmt.Sprintf("**Regulation:** %s\n", reg.Name)
				block += fmt.Sprintf("**Description:** %s\n", info.Description)
				additions = append(additions, block)
			}
			break
		}
	}

	if len(additions) == 0 {
		return context
	}
	return context + SectionSeparator + strings.Join(additions, SectionSeparator)
}

// Augment runs the three passes over a category match in fixed order:
// definitions, schedules, subsidiary legislation. Optional tables that
// failed to load degrade to empty and leave the context unchanged.
func Augment(match CategoryMatch, store *corpus.Store) string {
	context := match.Context
	context = AppendDefinitions(context, store.Definitions())
	context = AppendSchedules(context, store.Schedules())
	context = AppendSubsidiary(context, match.Sections, store.Subsidiary())
	return context
}
