package edition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ExactLanguage(t *testing.T) {
	r := NewResolver()
	res, err := r.Resolve("muslim", French)
	require.NoError(t, err)
	assert.Equal(t, "fra-muslim", res.EditionID)
	assert.Equal(t, French, res.Language)
	assert.False(t, res.Degraded)
	assert.Empty(t, res.Notice())
}

func TestResolve_FallsBackToDefault(t *testing.T) {
	r := NewResolver()
	res, err := r.Resolve("bukhari", French)
	require.NoError(t, err)
	assert.Equal(t, "eng-bukhari", res.EditionID)
	assert.Equal(t, English, res.Language)
	assert.Equal(t, French, res.Requested)
	assert.True(t, res.Degraded)
	assert.Contains(t, res.Notice(), "french")
}

func TestResolve_UnknownCollection(t *testing.T) {
	r := NewResolver()
	res, err := r.Resolve("nosuchbook", English)
	require.Error(t, err)
	assert.Empty(t, res.EditionID)

	var unsupported *UnsupportedLanguageError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "nosuchbook", unsupported.CollectionID)
}

func TestResolve_NormalizesCollectionID(t *testing.T) {
	r := NewResolver()
	res, err := r.Resolve("  Bukhari ", Urdu)
	require.NoError(t, err)
	assert.Equal(t, "urd-bukhari", res.EditionID)
}

func TestParseLanguage(t *testing.T) {
	lang, ok := ParseLanguage("French")
	assert.True(t, ok)
	assert.Equal(t, French, lang)

	lang, ok = ParseLanguage("ara")
	assert.True(t, ok)
	assert.Equal(t, Arabic, lang)

	lang, ok = ParseLanguage("")
	assert.True(t, ok)
	assert.Equal(t, DefaultLanguage, lang)

	_, ok = ParseLanguage("klingon")
	assert.False(t, ok)
}

func TestResolver_EveryCatalogCollectionHasDefaultEdition(t *testing.T) {
	r := NewResolver()
	for _, col := range NewCatalog().All() {
		_, ok := r.Lookup(col.ID, DefaultLanguage)
		assert.True(t, ok, col.ID)
	}
}

func TestResolver_Missing(t *testing.T) {
	r := NewResolver()
	available := make(map[string]bool)
	for _, id := range r.EditionIDs() {
		available[id] = true
	}
	delete(available, "fra-malik")
	assert.Equal(t, []string{"fra-malik"}, r.Missing(available))
}

func TestResolver_LanguagesFor(t *testing.T) {
	r := NewResolver()
	langs := r.LanguagesFor("nawawi")
	assert.ElementsMatch(t, []Language{Arabic, English, French}, langs)
}
