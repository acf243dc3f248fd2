package edition

import (
	"errors"
	"strings"

	"github.com/sahilm/fuzzy"

	"hadithhub/pkg/models"
)

// ErrUnknownCollection is returned when a collection id or name cannot be resolved.
var ErrUnknownCollection = errors.New("unknown collection")

// AllCollectionsID is the pseudo collection id for the curated multi-collection view.
const AllCollectionsID = "all"

// Collection describes one corpus known to the engine.
type Collection struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Code       int    `json:"code"` // short numeric code typed in citations ("3:12")
}

// Meta converts the collection into the normalizer's metadata shape.
func (c Collection) Meta() models.CollectionMeta {
	return models.CollectionMeta{ID: c.ID, Name: c.Name, NativeName: c.NativeName}
}

// collections is the fixed catalog. Codes must stay in sync with the citation table.
var collections = []Collection{
	{ID: "bukhari", Name: "Sahih al-Bukhari", NativeName: "صحيح البخاري", Code: 1},
	{ID: "muslim", Name: "Sahih Muslim", NativeName: "صحيح مسلم", Code: 2},
	{ID: "abudawud", Name: "Sunan Abu Dawud", NativeName: "سنن أبي داود", Code: 3},
	{ID: "tirmidhi", Name: "Jami at-Tirmidhi", NativeName: "جامع الترمذي", Code: 4},
	{ID: "nasai", Name: "Sunan an-Nasai", NativeName: "سنن النسائي", Code: 5},
	{ID: "ibnmajah", Name: "Sunan Ibn Majah", NativeName: "سنن ابن ماجه", Code: 6},
	{ID: "malik", Name: "Muwatta Malik", NativeName: "موطأ مالك", Code: 7},
	{ID: "nawawi", Name: "Forty Hadith of an-Nawawi", NativeName: "الأربعون النووية", Code: 8},
	{ID: "qudsi", Name: "Forty Hadith Qudsi", NativeName: "الأحاديث القدسية", Code: 9},
	{ID: "dehlawi", Name: "Forty Hadith of Shah Waliullah Dehlawi", NativeName: "أربعون الدهلوي", Code: 10},
}

// curated is the fixed subset loaded for the "all collections" view.
var curated = []string{"bukhari", "muslim", "nawawi", "qudsi"}

// Catalog answers questions about known collections.
type Catalog struct {
	byID   map[string]Collection
	byCode map[int]string
	names  []string // searchable "id name" strings, parallel to collections
}

// NewCatalog builds the catalog over the static collection table.
func NewCatalog() *Catalog {
	c := &Catalog{
		byID:   make(map[string]Collection, len(collections)),
		byCode: make(map[int]string, len(collections)),
		names:  make([]string, len(collections)),
	}
	for i, col := range collections {
		c.byID[col.ID] = col
		c.byCode[col.Code] = col.ID
		c.names[i] = col.ID + " " + col.Name
	}
	return c
}

// All returns every collection in code order.
func (c *Catalog) All() []Collection {
	out := make([]Collection, len(collections))
	copy(out, collections)
	return out
}

// Get returns the collection with the given id.
func (c *Catalog) Get(id string) (Collection, bool) {
	col, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	return col, ok
}

// Curated returns the fixed subset used by the "all collections" view.
func (c *Catalog) Curated() []Collection {
	out := make([]Collection, 0, len(curated))
	for _, id := range curated {
		out = append(out, c.byID[id])
	}
	return out
}

// Len implements fuzzy.Source.
func (c *Catalog) Len() int { return len(c.names) }

// String implements fuzzy.Source.
func (c *Catalog) String(i int) string { return c.names[i] }

// Lookup resolves free-form user input ("bukhri", "Sahih Muslim", "3") to a
// collection. Exact ids and codes win; otherwise the best fuzzy match is used.
func (c *Catalog) Lookup(input string) (Collection, error) {
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		return Collection{}, ErrUnknownCollection
	}
	if col, ok := c.byID[q]; ok {
		return col, nil
	}
	if id, ok := c.CollectionForCode(q); ok {
		return c.byID[id], nil
	}

	matches := fuzzy.FindFrom(q, c)
	if len(matches) == 0 {
		return Collection{}, ErrUnknownCollection
	}
	return collections[matches[0].Index], nil
}
