package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	v, err := StringList{"consent", "breach"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["consent","breach"]`, string(v.([]byte)))
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["consent","breach"]`)))
	assert.Equal(t, StringList{"consent", "breach"}, l)

	var fromString StringList
	require.NoError(t, fromString.Scan(`["overseas"]`))
	assert.Equal(t, StringList{"overseas"}, fromString)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.NotNil(t, fromNil)
	assert.Empty(t, fromNil)
}
