package edition

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownLanguage is returned for language input that names no supported language.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is a supported working-language identifier.
type Language string

const (
	English    Language = "english"
	Arabic     Language = "arabic"
	French     Language = "french"
	Urdu       Language = "urdu"
	Turkish    Language = "turkish"
	Indonesian Language = "indonesian"
	Bengali    Language = "bengali"
	Russian    Language = "russian"
)

// DefaultLanguage is used when the requested language has no edition.
const DefaultLanguage = English

// languagePrefix is the provider's edition-id prefix per language.
var languagePrefix = map[Language]string{
	English:    "eng",
	Arabic:     "ara",
	French:     "fra",
	Urdu:       "urd",
	Turkish:    "tur",
	Indonesian: "ind",
	Bengali:    "ben",
	Russian:    "rus",
}

// editionCollections lists, per language, the collections the provider publishes.
var editionCollections = map[Language][]string{
	English:    {"bukhari", "muslim", "abudawud", "tirmidhi", "nasai", "ibnmajah", "malik", "nawawi", "qudsi", "dehlawi"},
	Arabic:     {"bukhari", "muslim", "abudawud", "tirmidhi", "nasai", "ibnmajah", "malik", "nawawi", "qudsi", "dehlawi"},
	French:     {"muslim", "abudawud", "malik", "nawawi", "qudsi"},
	Urdu:       {"bukhari", "muslim", "abudawud", "tirmidhi", "nasai", "ibnmajah"},
	Turkish:    {"bukhari", "muslim", "abudawud", "tirmidhi", "nasai", "ibnmajah", "malik"},
	Indonesian: {"bukhari", "muslim", "abudawud", "tirmidhi", "nasai", "ibnmajah", "malik"},
	Bengali:    {"bukhari", "muslim", "abudawud", "tirmidhi", "nasai", "ibnmajah", "malik"},
	Russian:    {"bukhari", "muslim", "abudawud"},
}

// UnsupportedLanguageError reports that a collection has no edition in either
// the requested or the default language.
type UnsupportedLanguageError struct {
	CollectionID string
	Language     Language
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("collection %q has no edition in %s or %s", e.CollectionID, e.Language, DefaultLanguage)
}

// Resolution is the outcome of resolving a (collection, language) pair.
type Resolution struct {
	CollectionID string   `json:"collection_id"`
	EditionID    string   `json:"edition_id"`
	Requested    Language `json:"requested"`
	Language     Language `json:"language"` // language actually served
	Degraded     bool     `json:"degraded"` // true when Language != Requested
}

// Notice is the user-facing reduced-support message, empty when not degraded.
func (r Resolution) Notice() string {
	if !r.Degraded {
		return ""
	}
	return fmt.Sprintf("%s is not available in %s; showing %s instead", r.CollectionID, r.Requested, r.Language)
}

// Resolver maps (collection, language) to provider edition ids.
// The table is built once and never mutated.
type Resolver struct {
	editions map[Language]map[string]string
}

// NewResolver builds the static edition mapping.
func NewResolver() *Resolver {
	r := &Resolver{editions: make(map[Language]map[string]string, len(editionCollections))}
	for lang, ids := range editionCollections {
		m := make(map[string]string, len(ids))
		for _, id := range ids {
			m[id] = languagePrefix[lang] + "-" + id
		}
		r.editions[lang] = m
	}
	return r
}

// ParseLanguage normalizes user input ("French", "fra", " english ") to a Language.
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLanguage, true
	}
	if _, ok := languagePrefix[Language(s)]; ok {
		return Language(s), true
	}
	for lang, prefix := range languagePrefix {
		if prefix == s {
			return lang, true
		}
	}
	return "", false
}

// Languages returns the supported languages, sorted.
func (r *Resolver) Languages() []Language {
	out := make([]Language, 0, len(r.editions))
	for lang := range r.editions {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LanguagesFor returns the languages that publish collectionID, sorted.
func (r *Resolver) LanguagesFor(collectionID string) []Language {
	var out []Language
	for _, lang := range r.Languages() {
		if _, ok := r.editions[lang][collectionID]; ok {
			out = append(out, lang)
		}
	}
	return out
}

// Lookup returns the edition id for an exact (collection, language) pair.
func (r *Resolver) Lookup(collectionID string, lang Language) (string, bool) {
	id, ok := r.editions[lang][collectionID]
	return id, ok
}

// Resolve returns the edition for collectionID in lang, falling back to the
// default language when lang has none. An UnsupportedLanguageError is returned
// only when the default language has no edition either; the resolver never
// hands back an edition of a different collection.
func (r *Resolver) Resolve(collectionID string, lang Language) (Resolution, error) {
	collectionID = strings.ToLower(strings.TrimSpace(collectionID))
	res := Resolution{CollectionID: collectionID, Requested: lang}

	if id, ok := r.Lookup(collectionID, lang); ok {
		res.EditionID = id
		res.Language = lang
		return res, nil
	}
	if id, ok := r.Lookup(collectionID, DefaultLanguage); ok {
		res.EditionID = id
		res.Language = DefaultLanguage
		res.Degraded = true
		return res, nil
	}
	return res, &UnsupportedLanguageError{CollectionID: collectionID, Language: lang}
}

// EditionIDs returns every mapped edition id, sorted. Used for availability
// checks against the provider listing and for prefetching.
func (r *Resolver) EditionIDs() []string {
	var out []string
	for _, m := range r.editions {
		for _, id := range m {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Missing returns mapped edition ids absent from the provider's listing.
func (r *Resolver) Missing(available map[string]bool) []string {
	var out []string
	for _, id := range r.EditionIDs() {
		if !available[id] {
			out = append(out, id)
		}
	}
	return out
}
