package search

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"hadithhub/pkg/models"
)

// Filter returns the entries of set that contain q, case-insensitively, in
// any searchable field. An empty q matches everything. Order is preserved.
func Filter(set []models.Entry, q string) []models.Entry {
	q = strings.TrimSpace(q)
	if q == "" {
		return set
	}
	fold := cases.Fold()
	needle := fold.String(q)

	out := make([]models.Entry, 0)
	for _, e := range set {
		if matches(fold, e, needle) {
			out = append(out, e)
		}
	}
	return out
}

func matches(fold cases.Caser, e models.Entry, needle string) bool {
	fields := [...]string{
		e.PrimaryText,
		e.NativeText,
		e.AttributedTo,
		e.Theme,
		e.CollectionName,
		e.Reference,
		strconv.Itoa(e.EntryNumber),
	}
	for _, f := range fields {
		if f != "" && strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}
