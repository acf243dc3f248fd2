package edition

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CodesRoundTrip(t *testing.T) {
	c := NewCatalog()
	for _, col := range c.All() {
		code, ok := c.CodeForCollection(col.ID)
		require.True(t, ok)
		id, ok := c.CollectionForCode(strconv.Itoa(code))
		require.True(t, ok)
		assert.Equal(t, col.ID, id)
	}
}

func TestCatalog_CodesUnique(t *testing.T) {
	seen := make(map[int]string)
	for _, col := range NewCatalog().All() {
		prev, dup := seen[col.Code]
		assert.False(t, dup, "code %d shared by %s and %s", col.Code, prev, col.ID)
		seen[col.Code] = col.ID
	}
}

func TestCatalog_FormatCitation(t *testing.T) {
	c := NewCatalog()
	s, ok := c.FormatCitation("abudawud", 12)
	require.True(t, ok)
	assert.Equal(t, "3:12", s)

	_, ok = c.FormatCitation("unknown", 12)
	assert.False(t, ok)
}

func TestCatalog_LookupExactAndCode(t *testing.T) {
	c := NewCatalog()
	col, err := c.Lookup("Muslim")
	require.NoError(t, err)
	assert.Equal(t, "muslim", col.ID)

	col, err = c.Lookup("4")
	require.NoError(t, err)
	assert.Equal(t, "tirmidhi", col.ID)
}

func TestCatalog_LookupFuzzy(t *testing.T) {
	c := NewCatalog()
	col, err := c.Lookup("bukhri")
	require.NoError(t, err)
	assert.Equal(t, "bukhari", col.ID)

	col, err = c.Lookup("Sahih Muslim")
	require.NoError(t, err)
	assert.Equal(t, "muslim", col.ID)
}

func TestCatalog_LookupUnknown(t *testing.T) {
	c := NewCatalog()
	_, err := c.Lookup("zzzzqqq")
	assert.ErrorIs(t, err, ErrUnknownCollection)
	_, err = c.Lookup("  ")
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestCatalog_CuratedSubset(t *testing.T) {
	c := NewCatalog()
	ids := make([]string, 0)
	for _, col := range c.Curated() {
		ids = append(ids, col.ID)
	}
	assert.Equal(t, []string{"bukhari", "muslim", "nawawi", "qudsi"}, ids)
}
