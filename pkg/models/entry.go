package models

import "fmt"

// Category is the closed set of topic tags an Entry can carry.
type Category string

const (
	CategoryPrayer     Category = "prayer"
	CategoryFaith      Category = "faith"
	CategoryCharacter  Category = "character"
	CategoryKnowledge  Category = "knowledge"
	CategoryCharity    Category = "charity"
	CategoryFamily     Category = "family"
	CategoryBusiness   Category = "business"
	CategorySociety    Category = "society"
	CategoryHealth     Category = "health"
	CategoryFood       Category = "food"
	CategoryAfterlife  Category = "afterlife"
	CategoryCommunity  Category = "community"
	CategoryRepentance Category = "repentance"
	CategoryPatience   Category = "patience"
	CategoryGratitude  Category = "gratitude"
	CategoryGeneral    Category = "general"
)

// AllCategories returns every valid category in canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryPrayer, CategoryFaith, CategoryCharacter, CategoryKnowledge,
		CategoryCharity, CategoryFamily, CategoryBusiness, CategorySociety,
		CategoryHealth, CategoryFood, CategoryAfterlife, CategoryCommunity,
		CategoryRepentance, CategoryPatience, CategoryGratitude, CategoryGeneral,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, v := range AllCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// Grade is the authenticity/confidence label attached to an Entry.
type Grade string

const (
	GradeHigh       Grade = "high"
	GradeMedium     Grade = "medium"
	GradeUnverified Grade = "unverified"
)

// Rank orders grades from most to least confident. Unknown grades rank last.
func (g Grade) Rank() int {
	switch g {
	case GradeHigh:
		return 0
	case GradeMedium:
		return 1
	case GradeUnverified:
		return 2
	default:
		return 3
	}
}

// Entry is the canonical, normalized record served by the engine.
// Entries are created by the normalizer and never mutated afterwards.
type Entry struct {
	ID                   int64    `json:"id"`
	CollectionID         string   `json:"collection_id"`
	CollectionName       string   `json:"collection_name"`
	CollectionNameNative string   `json:"collection_name_native"`
	EntryNumber          int      `json:"entry_number"`
	Category             Category `json:"category"`
	AttributedTo         string   `json:"attributed_to"`
	PrimaryText          string   `json:"primary_text"`
	NativeText           string   `json:"native_text"`
	Theme                string   `json:"theme"`
	Grade                Grade    `json:"grade"`
	Explanation          string   `json:"explanation"`
	Reference            string   `json:"reference"`
	Chapter              *string  `json:"chapter,omitempty"`
	Section              *string  `json:"section,omitempty"`
}

// ComposeReference builds the display reference "{collectionName} {entryNumber}".
func ComposeReference(collectionName string, entryNumber int) string {
	return fmt.Sprintf("%s %d", collectionName, entryNumber)
}

// CollectionMeta identifies the collection a batch of raw entries belongs to.
type CollectionMeta struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}
