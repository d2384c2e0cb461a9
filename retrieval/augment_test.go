package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lawgic-backend/corpus"
)

func TestAppendDefinitions(t *testing.T) {
	defs := &corpus.Definitions{Entries: []corpus.Definition{
		{Term: "consent", Text: "agreement to collection, use or disclosure"},
		{Term: "individual", Text: "a natural person, whether living or deceased"},
		{Term: "organisation", Text: "any individual, company, association or body"},
	}}

	context := "### 13 consent required\nAn Individual must give CONSENT before collection."
	got := AppendDefinitions(context, defs)

	assert.Contains(t, got, "### Definition: consent")
	assert.Contains(t, got, "### Definition: individual")
	// Table order, not order of appearance in the context.
	assert.Less(t, strings.Index(got, "### Definition: consent"), strings.Index(got, "### Definition: individual"))
	assert.NotContains(t, got, "### Definition: organisation")
	assert.True(t, strings.HasPrefix(got, context))
}

func TestAppendDefinitionsWordBoundary(t *testing.T) {
	defs := &corpus.Definitions{Entries: []corpus.Definition{
		{Term: "consent", Text: "agreement to collection"},
	}}

	// "consenting" must not trigger the "consent" definition.
	got := AppendDefinitions("The consenting parties signed.", defs)
	assert.NotContains(t, got, "### Definition:")
}

func TestAppendDefinitionsNoMatches(t *testing.T) {
	defs := &corpus.Definitions{Entries: []corpus.Definition{
		{Term: "consent", Text: "agreement to collection"},
	}}

	context := "Nothing relevant here."
	assert.Equal(t, context, AppendDefinitions(context, defs))
	assert.Equal(t, "", AppendDefinitions("", defs))
	assert.Equal(t, context, AppendDefinitions(context, nil))
}

func TestAppendSchedules(t *testing.T) {
	schedules := corpus.Schedules{
		"fifth":  "Collection of personal data without consent.",
		"second": "Purposes for which an organisation may collect.",
	}

	context := "See the Fifth Schedule and the FIFTH SCHEDULE again, then the Second Schedule."
	got := AppendSchedules(context, schedules)

	// Each distinct ordinal appended once, in first-occurrence order.
	assert.Equal(t, 1, strings.Count(got, "### Fifth Schedule\n"))
	assert.Equal(t, 1, strings.Count(got, "### Second Schedule\n"))
	assert.Less(t, strings.Index(got, "### Fifth Schedule"), strings.Index(got, "### Second Schedule"))
	assert.Contains(t, got, "Collection of personal data without consent.")
}

func TestAppendSchedulesUnknownOrdinal(t *testing.T) {
	schedules := corpus.Schedules{"fifth": "Collection without consent."}

	context := "See the Ninth Schedule."
	assert.Equal(t, context, AppendSchedules(context, schedules))
}

func TestAppendSchedulesRequiresScheduleWord(t *testing.T) {
	schedules := corpus.Schedules{"fifth": "Collection without consent."}

	context := "The fifth provision applies."
	assert.Equal(t, context, AppendSchedules(context, schedules))
}

func TestAppendSubsidiaryFirstMatchWins(t *testing.T) {
	mapping := &corpus.SubsidiaryMapping{Regulations: []corpus.Regulation{
		{
			Name: "Personal Data Protection Regulations 2021",
			Sections: map[string]corpus.RegulationSection{
				"21": {Description: "Access and correction requests."},
			},
		},
		{
			Name: "Do Not Call Registry Regulations",
			Sections: map[string]corpus.RegulationSection{
				"21": {Description: "Should never be reached for section 21."},
			},
		},
	}}

	sections := []corpus.Section{{Title: "21 access to personal data", Text: "..."}}
	got := AppendSubsidiary("### 21 access to personal data\n...", sections, mapping)

	assert.Contains(t, got, "### Subsidiary Legislation - Section 21")
	assert.Contains(t, got, "**Regulation:** Personal Data Protection Regulations 2021")
	assert.NotContains(t, got, "Do Not Call Registry Regulations")
}

func TestAppendSubsidiaryEmptyDescriptionConsumesMatch(t *testing.T) {
	mapping := &corpus.SubsidiaryMapping{Regulations: []corpus.Regulation{
		{
			Name: "Personal Data Protection Regulations 2021",
			Sections: map[string]corpus.RegulationSection{
				"21": {Description: ""},
			},
		},
		{
			Name: "Do Not Call Registry Regulations",
			Sections: map[string]corpus.RegulationSection{
				"21": {Description: "Later regulation."},
			},
		},
	}}

	// The first covering regulation ends the search even when it has
	// nothing to contribute.
	context := "### 21 access to personal data\n..."
	sections := []corpus.Section{{Title: "21 access to personal data", Text: "..."}}
	assert.Equal(t, context, AppendSubsidiary(context, sections, mapping))
}

func TestAppendSubsidiarySectionNumberParsing(t *testing.T) {
	mapping := &corpus.SubsidiaryMapping{Regulations: []corpus.Regulation{
		{
			Name: "Personal Data Protection Regulations 2021",
			Sections: map[string]corpus.RegulationSection{
				"26a": {Description: "Data breach notification."},
			},
		},
	}}

	tests := []struct {
		name    string
		title   string
		matched bool
	}{
		{name: "letter suffix", title: "26a duty to notify", matched: true},
		{name: "no leading number", title: "interpretation provisions", matched: false},
		{name: "number without trailing space", title: "26a", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := []corpus.Section{{Title: tt.title, Text: "..."}}
			got := AppendSubsidiary("some context", sections, mapping)
			if tt.matched {
				assert.Contains(t, got, "Data breach notification.")
			} else {
				assert.Equal(t, "some context", got)
			}
		})
	}
}
