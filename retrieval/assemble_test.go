package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleContextEmpty(t *testing.T) {
	assert.Equal(t, NoRelevantCategories, AssembleContext(nil, nil))
}

func TestAssembleContextHeadersAndSeparators(t *testing.T) {
	matches := []CategoryMatch{
		{Category: "data sharing"},
		{Category: "consent obligations"},
	}
	augmented := []string{
		"### 21 notification of purpose\nbody one",
		"### 13 consent required\nbody two",
	}

	got := AssembleContext(matches, augmented)

	assert.True(t, strings.HasPrefix(got, "## Data Sharing\n\n"))
	assert.Contains(t, got, "## Consent Obligations\n\n")
	assert.Contains(t, got, strings.Repeat("=", 50))
	assert.Contains(t, got, "body one")
	assert.Contains(t, got, "body two")

	// Category blocks keep score order.
	assert.Less(t, strings.Index(got, "## Data Sharing"), strings.Index(got, "## Consent Obligations"))
}

func TestCategoryHeaders(t *testing.T) {
	matches := []CategoryMatch{
		{Category: "data sharing"},
		{Category: "consent obligations"},
	}
	augmented := []string{
		"### 21 notification of purpose\nbody",
		"### 13 consent required\nbody",
	}

	headers := CategoryHeaders(AssembleContext(matches, augmented))
	require.Equal(t, []string{"Data Sharing", "Consent Obligations"}, headers)

	// Section headers ("###") are not category headers.
	assert.Nil(t, CategoryHeaders(NoRelevantCategories))
}
