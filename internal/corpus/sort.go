package corpus

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"hadithhub/pkg/models"
)

// SortKey selects the ordering of a result set.
type SortKey string

const (
	SortDefault      SortKey = ""
	SortNumber       SortKey = "number"
	SortCollection   SortKey = "collection"
	SortAttributedTo SortKey = "attributedTo"
	SortTheme        SortKey = "theme"
	SortLength       SortKey = "length"
	SortGrade        SortKey = "grade"
)

// ParseSortKey accepts the API spellings of a sort key. Unknown keys fall back
// to SortDefault with ok=false.
func ParseSortKey(s string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return SortDefault, true
	case "number", "entrynumber", "entry_number":
		return SortNumber, true
	case "collection":
		return SortCollection, true
	case "attributedto", "attributed_to", "narrator":
		return SortAttributedTo, true
	case "theme":
		return SortTheme, true
	case "length":
		return SortLength, true
	case "grade":
		return SortGrade, true
	default:
		return SortDefault, false
	}
}

// Sort returns a sorted copy of entries. The sort is stable and never mutates
// its input.
func Sort(entries []models.Entry, key SortKey) []models.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, comparator(key))
	return out
}

func comparator(key SortKey) func(a, b models.Entry) int {
	switch key {
	case SortCollection:
		return func(a, b models.Entry) int {
			if c := compareText(a.CollectionName, b.CollectionName); c != 0 {
				return c
			}
			return cmp.Compare(a.EntryNumber, b.EntryNumber)
		}
	case SortAttributedTo:
		return func(a, b models.Entry) int { return compareText(a.AttributedTo, b.AttributedTo) }
	case SortTheme:
		return func(a, b models.Entry) int { return compareText(a.Theme, b.Theme) }
	case SortLength:
		return func(a, b models.Entry) int {
			return cmp.Compare(utf8.RuneCountInString(b.PrimaryText), utf8.RuneCountInString(a.PrimaryText))
		}
	case SortGrade:
		return func(a, b models.Entry) int { return cmp.Compare(a.Grade.Rank(), b.Grade.Rank()) }
	default:
		return func(a, b models.Entry) int { return cmp.Compare(a.EntryNumber, b.EntryNumber) }
	}
}

// compareText orders case-insensitively, then by raw bytes so that the order
// is total.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
